package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentAggregate folds every statement row carrying the same reference
// code into one net position. Balance is the arithmetic sum of all signed
// amounts; PaymentDate and RefundDate hold the booking date of the first
// positive and first negative row respectively and stay zero when no such
// row occurred.
type PaymentAggregate struct {
	ReferenceCode string
	Balance       decimal.Decimal
	PaymentDate   time.Time
	RefundDate    time.Time
}

// AggregateSet is a reference-code keyed collection of payment aggregates
// that preserves the order in which codes were first seen in the statement.
type AggregateSet struct {
	byCode map[string]*PaymentAggregate
	codes  []string
}

// AggregateByReference builds the aggregate set in a single forward pass
// over the statement rows.
func AggregateByReference(transactions []Transaction) *AggregateSet {
	set := &AggregateSet{byCode: make(map[string]*PaymentAggregate)}
	for _, txn := range transactions {
		set.fold(txn)
	}
	return set
}

func (s *AggregateSet) fold(txn Transaction) {
	agg, ok := s.byCode[txn.ReferenceCode]
	if !ok {
		agg = &PaymentAggregate{ReferenceCode: txn.ReferenceCode, Balance: decimal.Zero}
		s.byCode[txn.ReferenceCode] = agg
		s.codes = append(s.codes, txn.ReferenceCode)
	}

	agg.Balance = agg.Balance.Add(txn.Amount)
	// First occurrence wins: later rows of the same sign never move a date.
	if txn.Amount.IsPositive() && agg.PaymentDate.IsZero() {
		agg.PaymentDate = txn.BookingDate
	}
	if txn.Amount.IsNegative() && agg.RefundDate.IsZero() {
		agg.RefundDate = txn.BookingDate
	}
}

// Len returns the number of distinct reference codes.
func (s *AggregateSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}

// Get returns the aggregate for a code, or nil.
func (s *AggregateSet) Get(code string) *PaymentAggregate {
	if s == nil {
		return nil
	}
	return s.byCode[code]
}

// Each visits aggregates in first-seen order.
func (s *AggregateSet) Each(visit func(PaymentAggregate)) {
	if s == nil {
		return
	}
	for _, code := range s.codes {
		visit(*s.byCode[code])
	}
}
