package application

import (
	"context"
	"log"
	"time"
)

// ReminderScheduler runs the payment reminder pass once per day at a
// configured wall-clock time (UTC, "15:04" format). It ticks every minute,
// so the pass fires at the configured time regardless of when the process
// started.
type ReminderScheduler struct {
	service *ReminderService
	dailyAt string
	logger  *log.Logger
	observe func(ReminderStats)
}

// NewReminderScheduler constructs a scheduler. observe is called after each
// successful pass and may be nil.
func NewReminderScheduler(service *ReminderService, dailyAt string, logger *log.Logger, observe func(ReminderStats)) *ReminderScheduler {
	return &ReminderScheduler{
		service: service,
		dailyAt: dailyAt,
		logger:  logger,
		observe: observe,
	}
}

// Start begins the scheduler loop.
func (s *ReminderScheduler) Start(ctx context.Context) {
	if s == nil || s.service == nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !s.shouldRun(now.UTC()) {
				continue
			}
			s.runOnce(ctx)
		}
	}
}

func (s *ReminderScheduler) shouldRun(now time.Time) bool {
	hour, minute, err := parseDailyAt(s.dailyAt)
	if err != nil {
		return false
	}
	return now.Hour() == hour && now.Minute() == minute
}

func (s *ReminderScheduler) runOnce(ctx context.Context) {
	stats, err := s.service.Run(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("reminder pass error: %v", err)
		}
		return
	}
	if s.observe != nil {
		s.observe(stats)
	}
	if s.logger != nil {
		s.logger.Printf("reminder pass done: reminders=%d warnings=%d", stats.Reminders, stats.Warnings)
	}
}

func parseDailyAt(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
