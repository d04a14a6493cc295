package reconciliation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseStatement(t *testing.T) {
	input := strings.Join([]string{
		"Buchungstag;Verwendungszweck;Betrag",
		"01.03.2024;Karten ABCD1234;40,00",
		"05.03.2024;Stornierung Karten EFGH5678;-20,00",
		"07.03.2024;IJKL9012;8,50",
	}, "\n")

	txns, err := ParseStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse statement: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}

	first := txns[0]
	if first.ReferenceCode != "ABCD1234" {
		t.Fatalf("expected code ABCD1234, got %q", first.ReferenceCode)
	}
	if !first.Amount.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected amount 40.00, got %s", first.Amount)
	}
	wantDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !first.BookingDate.Equal(wantDate) {
		t.Fatalf("expected booking date %s, got %s", wantDate, first.BookingDate)
	}

	if txns[1].ReferenceCode != "EFGH5678" {
		t.Fatalf("expected cancellation code EFGH5678, got %q", txns[1].ReferenceCode)
	}
	if !txns[1].Amount.IsNegative() {
		t.Fatalf("expected negative amount, got %s", txns[1].Amount)
	}
	if txns[2].ReferenceCode != "IJKL9012" {
		t.Fatalf("expected code IJKL9012, got %q", txns[2].ReferenceCode)
	}
}

func TestParseStatementExtraColumns(t *testing.T) {
	input := strings.Join([]string{
		"Auftragskonto;Buchungstag;Valutadatum;Verwendungszweck;Betrag;Waehrung",
		"DE01;02.03.2024;02.03.2024;Karten ABCD1234;20,00;EUR",
	}, "\n")

	txns, err := ParseStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse statement: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].ReferenceCode != "ABCD1234" {
		t.Fatalf("expected code ABCD1234, got %q", txns[0].ReferenceCode)
	}
}

func TestParseStatementMissingColumn(t *testing.T) {
	input := "Buchungstag;Betrag\n01.03.2024;40,00\n"
	_, err := ParseStatement(strings.NewReader(input))
	if !errors.Is(err, ErrStatementHeader) {
		t.Fatalf("expected ErrStatementHeader, got %v", err)
	}
}

func TestParseStatementMalformedDate(t *testing.T) {
	input := strings.Join([]string{
		"Buchungstag;Verwendungszweck;Betrag",
		"01.03.2024;Karten ABCD1234;40,00",
		"2024-03-05;Karten EFGH5678;20,00",
	}, "\n")

	_, err := ParseStatement(strings.NewReader(input))
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected line number in error, got %q", err.Error())
	}
}

func TestParseStatementMalformedAmount(t *testing.T) {
	input := strings.Join([]string{
		"Buchungstag;Verwendungszweck;Betrag",
		"01.03.2024;Karten ABCD1234;forty",
	}, "\n")

	_, err := ParseStatement(strings.NewReader(input))
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
}

func TestExtractReferenceCode(t *testing.T) {
	cases := []struct {
		name string
		memo string
		want string
	}{
		{"plain payment", "Karten ABCD1234", "ABCD1234"},
		{"cancellation", "Stornierung Karten ABCD1234", "ABCD1234"},
		{"trailing text", "Karten ABCD1234 danke", "ABCD1234"},
		{"no space", "KartenABCD1234", "ABCD1234"},
		{"no space short", "AB12", "AB12"},
		{"single word with space trimmed", " ABCD1234 ", "ABCD1234"},
		{"cancellation without code", "Stornierung Karten", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractReferenceCode(tc.memo)
			if got != tc.want {
				t.Fatalf("memo %q: expected %q, got %q", tc.memo, tc.want, got)
			}
		})
	}
}
