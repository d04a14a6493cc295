package reconciliation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func txn(code string, amount string, bookingDay int) Transaction {
	return Transaction{
		BookingDate:   day(bookingDay),
		Amount:        decimal.RequireFromString(amount),
		ReferenceCode: code,
	}
}

func TestAggregateByReferenceSumsBalance(t *testing.T) {
	set := AggregateByReference([]Transaction{
		txn("ABCD1234", "20.00", 1),
		txn("ABCD1234", "20.00", 3),
		txn("EFGH5678", "40.00", 2),
		txn("EFGH5678", "-40.00", 5),
	})

	if set.Len() != 2 {
		t.Fatalf("expected 2 aggregates, got %d", set.Len())
	}

	first := set.Get("ABCD1234")
	if first == nil {
		t.Fatal("expected aggregate for ABCD1234")
	}
	if !first.Balance.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected balance 40.00, got %s", first.Balance)
	}

	second := set.Get("EFGH5678")
	if !second.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", second.Balance)
	}
}

func TestAggregateFirstOccurrenceDatesWin(t *testing.T) {
	set := AggregateByReference([]Transaction{
		txn("ABCD1234", "20.00", 1),
		txn("ABCD1234", "-20.00", 4),
		txn("ABCD1234", "20.00", 9),
		txn("ABCD1234", "-20.00", 12),
	})

	agg := set.Get("ABCD1234")
	if !agg.PaymentDate.Equal(day(1)) {
		t.Fatalf("expected payment date %s, got %s", day(1), agg.PaymentDate)
	}
	if !agg.RefundDate.Equal(day(4)) {
		t.Fatalf("expected refund date %s, got %s", day(4), agg.RefundDate)
	}
}

func TestAggregateZeroAmountLeavesDatesUnset(t *testing.T) {
	set := AggregateByReference([]Transaction{
		txn("ABCD1234", "0.00", 1),
	})

	agg := set.Get("ABCD1234")
	if agg == nil {
		t.Fatal("expected aggregate for zero-amount row")
	}
	if !agg.PaymentDate.IsZero() || !agg.RefundDate.IsZero() {
		t.Fatalf("expected unset dates, got payment=%s refund=%s", agg.PaymentDate, agg.RefundDate)
	}
}

func TestAggregateBalanceIsOrderIndependent(t *testing.T) {
	rows := []Transaction{
		txn("ABCD1234", "20.00", 1),
		txn("ABCD1234", "-5.50", 2),
		txn("ABCD1234", "12.25", 3),
	}
	reversed := []Transaction{rows[2], rows[1], rows[0]}

	forward := AggregateByReference(rows).Get("ABCD1234")
	backward := AggregateByReference(reversed).Get("ABCD1234")
	if !forward.Balance.Equal(backward.Balance) {
		t.Fatalf("expected equal balances, got %s and %s", forward.Balance, backward.Balance)
	}
}

func TestAggregateEachVisitsFirstSeenOrder(t *testing.T) {
	set := AggregateByReference([]Transaction{
		txn("CCCC0000", "1.00", 1),
		txn("AAAA0000", "1.00", 2),
		txn("CCCC0000", "1.00", 3),
		txn("BBBB0000", "1.00", 4),
	})

	var seen []string
	set.Each(func(agg PaymentAggregate) {
		seen = append(seen, agg.ReferenceCode)
	})
	want := []string{"CCCC0000", "AAAA0000", "BBBB0000"}
	if len(seen) != len(want) {
		t.Fatalf("expected %d aggregates, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, seen)
		}
	}
}
