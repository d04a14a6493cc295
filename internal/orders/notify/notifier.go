package notify

import (
	"context"
	"time"
)

// Reminder stages.
const (
	StageReminder = "reminder"
	StageWarning  = "warning"
)

// Reminder is a payment reminder notification for the operations channel.
// It names the order and the outstanding amount; composing and sending the
// customer email happens outside this service.
type Reminder struct {
	Stage         string    `json:"stage"`
	ReferenceCode string    `json:"reference_code"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EventKey      string    `json:"event_key"`
	Amount        string    `json:"amount"`
	OrderDate     time.Time `json:"order_date"`
}

// Notifier delivers reminder notifications.
type Notifier interface {
	NotifyReminder(ctx context.Context, msg Reminder) error
}
