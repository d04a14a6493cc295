package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	orders "ticketshop/internal/orders/domain"
	notify "ticketshop/internal/orders/notify"
)

// ReminderRepository lists orders due for payment reminders.
type ReminderRepository interface {
	// ListDueFirstReminders returns unpaid, uncancelled orders placed on or
	// before the cutoff that have received neither reminder nor warning.
	ListDueFirstReminders(ctx context.Context, cutoff time.Time) ([]*orders.Order, error)
	// ListDueWarnings returns unpaid, uncancelled orders whose first
	// reminder dates on or before the cutoff and that have no warning yet.
	ListDueWarnings(ctx context.Context, cutoff time.Time) ([]*orders.Order, error)
	Save(ctx context.Context, order *orders.Order) error
}

// ReminderService escalates overdue payments in two stages: a friendly
// reminder after the payment grace period and a warning after the reminder
// stayed unanswered. Both allow extra days for bank transfer time.
type ReminderService struct {
	repo     ReminderRepository
	notifier notify.Notifier
	cfg      Config
	clock    Clock
	logger   *log.Logger
}

// NewReminderService constructs the reminder service.
func NewReminderService(repo ReminderRepository, notifier notify.Notifier, cfg Config, clock Clock, logger *log.Logger) (*ReminderService, error) {
	if repo == nil {
		return nil, errors.New("reminder service: nil repository")
	}
	if notifier == nil {
		return nil, errors.New("reminder service: nil notifier")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReminderService{repo: repo, notifier: notifier, cfg: cfg, clock: clock, logger: logger}, nil
}

// ReminderStats counts the notifications of one pass.
type ReminderStats struct {
	Reminders int
	Warnings  int
}

// Run performs one reminder pass. An order whose notification fails is left
// unmarked and picked up again on the next pass.
func (s *ReminderService) Run(ctx context.Context) (ReminderStats, error) {
	now := s.clock.Now()

	var stats ReminderStats
	var err error
	if stats.Reminders, err = s.runStage(ctx, notify.StageReminder, now); err != nil {
		return stats, err
	}
	stats.Warnings, err = s.runStage(ctx, notify.StageWarning, now)
	return stats, err
}

func (s *ReminderService) runStage(ctx context.Context, stage string, now time.Time) (int, error) {
	var due []*orders.Order
	var err error
	switch stage {
	case notify.StageReminder:
		due, err = s.repo.ListDueFirstReminders(ctx, s.cfg.ReminderCutoff(now))
	case notify.StageWarning:
		due, err = s.repo.ListDueWarnings(ctx, s.cfg.WarningCutoff(now))
	default:
		return 0, fmt.Errorf("reminder service: unknown stage %q", stage)
	}
	if err != nil {
		return 0, fmt.Errorf("reminder service: list %s orders: %w", stage, err)
	}

	sent := 0
	prices := s.cfg.Prices()
	for _, order := range due {
		amount := prices.ExpectedAmount(order.NumberDiscount, order.NumberRegular)
		msg := notify.Reminder{
			Stage:         stage,
			ReferenceCode: order.ReferenceCode,
			Name:          order.Name,
			Email:         order.Email,
			EventKey:      order.EventKey,
			Amount:        amount.StringFixed(2),
			OrderDate:     order.OrderDate,
		}
		if err := s.notifier.NotifyReminder(ctx, msg); err != nil {
			if s.logger != nil {
				s.logger.Printf("reminder notify failed: order=%s stage=%s err=%v", order.ReferenceCode, stage, err)
			}
			continue
		}

		switch stage {
		case notify.StageReminder:
			order.ReminderSent = true
			order.ReminderDate = now
		case notify.StageWarning:
			order.WarningSent = true
			order.WarningDate = now
		}
		if err := s.repo.Save(ctx, order); err != nil {
			return sent, fmt.Errorf("reminder service: save order %s: %w", order.ReferenceCode, err)
		}
		sent++
	}
	return sent, nil
}
