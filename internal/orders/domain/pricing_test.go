package orders

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExpectedAmount(t *testing.T) {
	prices := PriceList{
		Discount: decimal.NewFromInt(8),
		Regular:  decimal.NewFromInt(20),
	}

	cases := []struct {
		numDiscount int
		numRegular  int
		want        string
	}{
		{0, 0, "0"},
		{1, 0, "8"},
		{0, 2, "40"},
		{2, 3, "76"},
	}
	for _, tc := range cases {
		got := prices.ExpectedAmount(tc.numDiscount, tc.numRegular)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%d discount, %d regular: expected %s, got %s", tc.numDiscount, tc.numRegular, tc.want, got)
		}
	}
}

func TestTicketPrice(t *testing.T) {
	prices := PriceList{
		Discount: decimal.RequireFromString("8.50"),
		Regular:  decimal.RequireFromString("21.00"),
	}
	if !prices.TicketPrice(TicketDiscount).Equal(prices.Discount) {
		t.Fatal("expected discount price for discount ticket")
	}
	if !prices.TicketPrice(TicketRegular).Equal(prices.Regular) {
		t.Fatal("expected regular price for regular ticket")
	}
}

func TestIssueTickets(t *testing.T) {
	order := &Order{ReferenceCode: "ABCD1234", NumberDiscount: 1, NumberRegular: 2}
	tickets := IssueTickets(order)

	if len(tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(tickets))
	}
	var discount, regular int
	codes := make(map[string]struct{})
	for _, ticket := range tickets {
		if ticket.OrderReference != "ABCD1234" {
			t.Fatalf("expected order reference ABCD1234, got %q", ticket.OrderReference)
		}
		codes[ticket.Code] = struct{}{}
		switch ticket.Type {
		case TicketDiscount:
			discount++
		case TicketRegular:
			regular++
		}
	}
	if discount != 1 || regular != 2 {
		t.Fatalf("expected 1 discount and 2 regular, got %d and %d", discount, regular)
	}
	if len(codes) != 3 {
		t.Fatal("expected unique ticket codes")
	}
}
