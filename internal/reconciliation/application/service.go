package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	orders "ticketshop/internal/orders/domain"
	reconciliation "ticketshop/internal/reconciliation/domain"
)

// OrderDirectory looks up and persists orders by reference code. Lookups
// for unknown codes return orders.ErrOrderNotFound.
type OrderDirectory interface {
	FindByReferenceCode(ctx context.Context, code string) (*orders.Order, error)
	Save(ctx context.Context, order *orders.Order) error
}

// Service runs one synchronous reconciliation pass over a bank statement.
// Callers must serialize runs: the first-occurrence date logic and the
// wrong-amount rollback are not safe against interleaved runs touching the
// same orders.
type Service struct {
	directory OrderDirectory
	prices    orders.PriceList
}

// NewService constructs the reconciliation service.
func NewService(directory OrderDirectory, prices orders.PriceList) (*Service, error) {
	if directory == nil {
		return nil, errors.New("reconciliation service: nil order directory")
	}
	return &Service{directory: directory, prices: prices}, nil
}

// Reconcile parses the whole statement first, then aggregates per reference
// code and classifies each aggregate against its order, persisting mutated
// orders once per code. Anomalies become report lines; only an unreadable
// statement aborts the run, in which case no report is produced.
func (s *Service) Reconcile(ctx context.Context, statement io.Reader) (*Report, error) {
	transactions, err := reconciliation.ParseStatement(statement)
	if err != nil {
		return nil, err
	}
	aggregates := reconciliation.AggregateByReference(transactions)

	report := &Report{}
	var walkErr error
	aggregates.Each(func(agg reconciliation.PaymentAggregate) {
		if walkErr != nil {
			return
		}
		walkErr = s.reconcileAggregate(ctx, agg, report)
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return report, nil
}

func (s *Service) reconcileAggregate(ctx context.Context, agg reconciliation.PaymentAggregate, report *Report) error {
	order, err := s.directory.FindByReferenceCode(ctx, agg.ReferenceCode)
	if errors.Is(err, orders.ErrOrderNotFound) {
		report.append(reconciliation.Outcome{Kind: reconciliation.OutcomeUnmatched, ReferenceCode: agg.ReferenceCode})
		return nil
	}
	if err != nil {
		return fmt.Errorf("reconcile %s: find order: %w", agg.ReferenceCode, err)
	}

	view := reconciliation.OrderView{
		IsPaid:     order.IsPaid,
		IsDeleted:  order.IsDeleted,
		IsRefunded: order.IsRefunded,
	}
	expected := s.prices.ExpectedAmount(order.NumberDiscount, order.NumberRegular)
	decision := reconciliation.Classify(agg, view, expected)

	applyEffect(order, decision.Effect)
	for _, outcome := range decision.Outcomes {
		report.append(outcome)
	}

	if err := s.directory.Save(ctx, order); err != nil {
		return fmt.Errorf("reconcile %s: save order: %w", agg.ReferenceCode, err)
	}
	return nil
}

func applyEffect(order *orders.Order, effect reconciliation.Effect) {
	if effect.MarkPaid {
		order.IsPaid = true
		order.PaymentDate = effect.PaymentDate
	}
	if effect.ClearPaid {
		order.IsPaid = false
		order.PaymentDate = time.Time{}
	}
	if effect.MarkRefunded {
		order.IsRefunded = true
		order.RefundDate = effect.RefundDate
	}
}
