package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posts reminder notifications to a webhook.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier constructs a notifier.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyReminder sends one reminder payload.
func (n *WebhookNotifier) NotifyReminder(ctx context.Context, msg Reminder) error {
	if n == nil || n.url == "" {
		return errors.New("webhook notifier: empty url")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook notifier: status %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier is a no-op notifier used when no webhook is configured; the
// reminder pass still marks orders so stages do not repeat.
type LogNotifier struct {
	Printf func(format string, v ...any)
}

// NotifyReminder logs the reminder.
func (n LogNotifier) NotifyReminder(_ context.Context, msg Reminder) error {
	if n.Printf != nil {
		n.Printf("payment %s due: order=%s amount=%s", msg.Stage, msg.ReferenceCode, msg.Amount)
	}
	return nil
}
