package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"ticketshop/internal/audit"
	"ticketshop/internal/auth"
	"ticketshop/internal/observability/metrics"
	"ticketshop/internal/orders/application"
	notify "ticketshop/internal/orders/notify"
)

// ReminderHandler triggers a reminder pass on demand. The same pass runs on
// the daily schedule; this endpoint exists for operators.
type ReminderHandler struct {
	service     *application.ReminderService
	auditLogger audit.Logger
}

// NewReminderHandler constructs a handler.
func NewReminderHandler(service *application.ReminderService, auditLogger audit.Logger) (*ReminderHandler, error) {
	if service == nil {
		return nil, errors.New("reminder handler: nil service")
	}
	return &ReminderHandler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP handles POST /api/v1/reminders/run.
func (h *ReminderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.service.Run(r.Context())
	if err != nil {
		http.Error(w, "reminder run failed", http.StatusInternalServerError)
		return
	}
	for i := 0; i < stats.Reminders; i++ {
		metrics.IncReminderSent(notify.StageReminder)
	}
	for i := 0; i < stats.Warnings; i++ {
		metrics.IncReminderSent(notify.StageWarning)
	}

	if h.auditLogger != nil {
		meta, _ := json.Marshal(stats)
		_ = h.auditLogger.Log(r.Context(), audit.Entry{
			Actor:        auth.SubjectFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       "reminders.run",
			ResourceType: "reminder_pass",
			Metadata:     meta,
			IP:           r.RemoteAddr,
			UserAgent:    r.UserAgent(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{
		"reminders_sent": stats.Reminders,
		"warnings_sent":  stats.Warnings,
	})
}
