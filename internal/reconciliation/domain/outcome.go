package reconciliation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OutcomeKind classifies the reconciliation result of one aggregate.
type OutcomeKind string

const (
	// OutcomePaid marks an order paid in full with the expected amount.
	OutcomePaid OutcomeKind = "paid"
	// OutcomeWrongAmount marks a payment that does not equal the order total.
	OutcomeWrongAmount OutcomeKind = "wrong_amount"
	// OutcomeRefundNeeded marks a cancelled order whose payment still has to
	// be returned to the customer.
	OutcomeRefundNeeded OutcomeKind = "refund_needed"
	// OutcomeRefundSuccessful marks a cancelled order whose payment was fully
	// returned.
	OutcomeRefundSuccessful OutcomeKind = "refund_successful"
	// OutcomeIncorrectRefund marks a refund for an order the customer never
	// cancelled.
	OutcomeIncorrectRefund OutcomeKind = "incorrect_refund"
	// OutcomeIncorrectRefundAmount marks a refund exceeding what was received.
	OutcomeIncorrectRefundAmount OutcomeKind = "incorrect_refund_amount"
	// OutcomeUnmatched marks a reference code no order could be found for.
	OutcomeUnmatched OutcomeKind = "unmatched"
)

// Tag returns the Fehlertyp column value written to the report. Both refund
// anomalies share the FALSCHE_ERSTATTUNG tag the accounting team knows from
// the legacy reports.
func (k OutcomeKind) Tag() string {
	switch k {
	case OutcomePaid:
		return "BEZAHLT"
	case OutcomeWrongAmount:
		return "FALSCHER_BETRAG"
	case OutcomeRefundNeeded:
		return "ERSTATTUNG_NOTWENDIG"
	case OutcomeRefundSuccessful:
		return "ERFOLGREICHE_ERSTATTUNG"
	case OutcomeIncorrectRefund, OutcomeIncorrectRefundAmount:
		return "FALSCHE_ERSTATTUNG"
	case OutcomeUnmatched:
		return "NICHT_ZUORDENBAR"
	}
	return string(k)
}

// Outcome is one classified result with the figures its report line needs.
type Outcome struct {
	Kind          OutcomeKind
	ReferenceCode string
	Expected      decimal.Decimal
	Actual        decimal.Decimal
}

// Description renders the human-readable German report message.
func (o Outcome) Description() string {
	switch o.Kind {
	case OutcomePaid:
		return fmt.Sprintf("Bestellung %s wurde bezahlt.", o.ReferenceCode)
	case OutcomeWrongAmount:
		return fmt.Sprintf(
			"Bestellung %s wurde inkorrekt bezahlt. Sollte sein: %s €. Tatsächlich bezahlt: %s €.",
			o.ReferenceCode, formatAmount(o.Expected), formatAmount(o.Actual),
		)
	case OutcomeRefundNeeded:
		return fmt.Sprintf("Für Bestellung %s müssen %s € erstattet werden.", o.ReferenceCode, formatAmount(o.Actual))
	case OutcomeRefundSuccessful:
		return fmt.Sprintf("Bestellung %s wurde erstattet.", o.ReferenceCode)
	case OutcomeIncorrectRefund:
		return fmt.Sprintf(
			"Bestellung %s wurde fälschlicherweise erstattet. Die Bestellung wurde nicht durch den Kunden storniert.",
			o.ReferenceCode,
		)
	case OutcomeIncorrectRefundAmount:
		return fmt.Sprintf(
			"Bestellung %s wurde inkorrekt erstattet. Überwiesener Betrag minus erstatteter Betrag ist %s €. Bitte überprüfen.",
			o.ReferenceCode, formatAmount(o.Actual),
		)
	case OutcomeUnmatched:
		return fmt.Sprintf("Buchungsnummer '%s' konnte keiner Bestellung zugeordnet werden.", o.ReferenceCode)
	}
	return ""
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
