package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderView is the slice of order state the classifier reads. It keeps the
// decision table free of any storage concern.
type OrderView struct {
	IsPaid     bool
	IsDeleted  bool
	IsRefunded bool
}

// Effect lists the order mutations a decision implies. Applying and
// persisting it is the caller's business.
type Effect struct {
	MarkPaid    bool
	PaymentDate time.Time

	ClearPaid bool

	MarkRefunded bool
	RefundDate   time.Time
}

// Decision is the outcome of classifying one aggregate against its order:
// zero or more report lines plus the order mutations to apply. The
// zero-balance branch of an already refunded, cancelled order is the only
// case producing no line at all.
type Decision struct {
	Outcomes []Outcome
	Effect   Effect
}

// Classify evaluates one payment aggregate against the order it references.
// expected is the order's total ticket price. The function is pure; it
// neither reads nor writes storage.
func Classify(agg PaymentAggregate, order OrderView, expected decimal.Decimal) Decision {
	switch {
	case agg.Balance.IsZero():
		return classifyZeroBalance(agg, order)
	case agg.Balance.IsPositive():
		return classifyPositiveBalance(agg, order, expected)
	default:
		// More money went out than came in. Never auto-corrected: the right
		// manual remedy is ambiguous.
		return Decision{Outcomes: []Outcome{{
			Kind:          OutcomeIncorrectRefundAmount,
			ReferenceCode: agg.ReferenceCode,
			Actual:        agg.Balance,
		}}}
	}
}

func classifyZeroBalance(agg PaymentAggregate, order OrderView) Decision {
	var decision Decision

	// A zero balance implies at least one inflow, so the order was paid at
	// some point even if it never got marked.
	if !order.IsPaid {
		decision.Effect.MarkPaid = true
		decision.Effect.PaymentDate = agg.PaymentDate
	}

	if order.IsDeleted {
		if !order.IsRefunded {
			decision.Effect.MarkRefunded = true
			decision.Effect.RefundDate = agg.RefundDate
			decision.Outcomes = append(decision.Outcomes, Outcome{
				Kind:          OutcomeRefundSuccessful,
				ReferenceCode: agg.ReferenceCode,
			})
		}
		return decision
	}

	decision.Outcomes = append(decision.Outcomes, Outcome{
		Kind:          OutcomeIncorrectRefund,
		ReferenceCode: agg.ReferenceCode,
	})
	return decision
}

func classifyPositiveBalance(agg PaymentAggregate, order OrderView, expected decimal.Decimal) Decision {
	if order.IsDeleted {
		// The refund has not happened yet, so nothing is mutated.
		return Decision{Outcomes: []Outcome{{
			Kind:          OutcomeRefundNeeded,
			ReferenceCode: agg.ReferenceCode,
			Actual:        agg.Balance,
		}}}
	}

	if !agg.Balance.Equal(expected) {
		// Roll back any earlier mark-as-paid: with the wrong amount on the
		// books the order must not count as settled.
		return Decision{
			Outcomes: []Outcome{{
				Kind:          OutcomeWrongAmount,
				ReferenceCode: agg.ReferenceCode,
				Expected:      expected,
				Actual:        agg.Balance,
			}},
			Effect: Effect{ClearPaid: true},
		}
	}

	return Decision{
		Outcomes: []Outcome{{
			Kind:          OutcomePaid,
			ReferenceCode: agg.ReferenceCode,
		}},
		Effect: Effect{MarkPaid: true, PaymentDate: agg.PaymentDate},
	}
}
