package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"ticketshop/internal/audit"
	"ticketshop/internal/auth"
	events "ticketshop/internal/events/domain"
	"ticketshop/internal/observability/metrics"
	"ticketshop/internal/orders/application"
	orders "ticketshop/internal/orders/domain"
)

// OrderHandler serves the order APIs: the public shop endpoints plus the
// staff-only detail and invoice routes.
type OrderHandler struct {
	service     *application.Service
	cfg         application.Config
	auditLogger audit.Logger
}

// NewOrderHandler constructs a handler.
func NewOrderHandler(service *application.Service, cfg application.Config, auditLogger audit.Logger) (*OrderHandler, error) {
	if service == nil {
		return nil, errors.New("order handler: nil service")
	}
	return &OrderHandler{service: service, cfg: cfg, auditLogger: auditLogger}, nil
}

// ServeHTTP handles routes under /api/v1/orders.
func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/orders" && r.Method == http.MethodPost {
		h.handleCreate(w, r)
		return
	}
	if rest, ok := strings.CutPrefix(path, "/api/v1/orders/"); ok && rest != "" {
		h.handleByReference(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *OrderHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name"`
		Address        string `json:"address"`
		Email          string `json:"email"`
		EventKey       string `json:"event_key"`
		NumberDiscount int    `json:"number_discount"`
		NumberRegular  int    `json:"number_regular"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.EventKey == "" {
		http.Error(w, "name, email and event_key are required", http.StatusBadRequest)
		return
	}
	if req.NumberDiscount < 0 || req.NumberRegular < 0 {
		http.Error(w, "ticket counts must not be negative", http.StatusBadRequest)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), application.NewOrder{
		Name:           req.Name,
		Address:        req.Address,
		Email:          req.Email,
		EventKey:       req.EventKey,
		NumberDiscount: req.NumberDiscount,
		NumberRegular:  req.NumberRegular,
	})
	if err != nil {
		respondOrderError(w, err)
		return
	}
	metrics.IncOrderCreated()

	total := h.service.ExpectedAmount(order)
	resp := map[string]any{
		"reference_code":    order.ReferenceCode,
		"delete_code":       order.DeleteCode,
		"total_amount":      total.StringFixed(2),
		"payment_reference": "Karten " + order.ReferenceCode,
		"iban":              h.cfg.IBAN,
		"payable_until":     order.OrderDate.AddDate(0, 0, h.cfg.PaymentGraceDays).Format(time.DateOnly),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *OrderHandler) handleByReference(w http.ResponseWriter, r *http.Request, rest string) {
	parts := strings.Split(rest, "/")
	referenceCode := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodDelete:
			h.handleDelete(w, r, referenceCode)
			return
		case http.MethodGet:
			h.handleGet(w, r, referenceCode)
			return
		}
	}
	if len(parts) == 2 && parts[1] == "invoice.pdf" && r.Method == http.MethodGet {
		h.handleInvoice(w, r, referenceCode)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *OrderHandler) handleDelete(w http.ResponseWriter, r *http.Request, referenceCode string) {
	deleteCode := r.URL.Query().Get("delete_code")
	if deleteCode == "" {
		http.Error(w, "delete_code is required", http.StatusBadRequest)
		return
	}
	order, err := h.service.DeleteOrder(r.Context(), referenceCode, deleteCode)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	metrics.IncOrderCancelled()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"reference_code": order.ReferenceCode,
		"deleted":        true,
		"was_paid":       order.IsPaid,
	})
	h.logAudit(r, order.ReferenceCode, "order.delete")
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request, referenceCode string) {
	order, tickets, err := h.service.OrderWithTickets(r.Context(), referenceCode)
	if err != nil {
		respondOrderError(w, err)
		return
	}

	ticketCodes := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		ticketCodes = append(ticketCodes, ticket.Code)
	}
	resp := map[string]any{
		"reference_code":  order.ReferenceCode,
		"order_date":      order.OrderDate,
		"name":            order.Name,
		"email":           order.Email,
		"event_key":       order.EventKey,
		"number_discount": order.NumberDiscount,
		"number_regular":  order.NumberRegular,
		"is_paid":         order.IsPaid,
		"is_deleted":      order.IsDeleted,
		"is_refunded":     order.IsRefunded,
		"total_amount":    h.service.ExpectedAmount(order).StringFixed(2),
		"tickets":         ticketCodes,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *OrderHandler) handleInvoice(w http.ResponseWriter, r *http.Request, referenceCode string) {
	order, tickets, err := h.service.OrderWithTickets(r.Context(), referenceCode)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	event, err := h.service.EventByKey(r.Context(), order.EventKey)
	if err != nil {
		respondOrderError(w, err)
		return
	}

	body, err := BuildInvoicePDF(order, tickets, event, h.service.ExpectedAmount(order), h.cfg)
	if err != nil {
		http.Error(w, "render invoice", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="rechnung_tickets_`+order.ReferenceCode+`.pdf"`)
	_, _ = w.Write(body)
	h.logAudit(r, order.ReferenceCode, "order.invoice_download")
}

func (h *OrderHandler) logAudit(r *http.Request, referenceCode, action string) {
	if h.auditLogger == nil {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "order",
		ResourceID:   referenceCode,
		IP:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	})
}

func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, events.ErrEventNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, orders.ErrInvalidDeleteCode):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, orders.ErrSaleClosed),
		errors.Is(err, orders.ErrNotEnoughTickets),
		errors.Is(err, orders.ErrDeleteWindowClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, orders.ErrNoTickets), errors.Is(err, orders.ErrNegativeTickets):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// EventsHandler serves the public concert listing.
type EventsHandler struct {
	service *application.Service
}

// NewEventsHandler constructs a handler.
func NewEventsHandler(service *application.Service) (*EventsHandler, error) {
	if service == nil {
		return nil, errors.New("events handler: nil service")
	}
	return &EventsHandler{service: service}, nil
}

// ServeHTTP handles GET /api/v1/events.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	list, err := h.service.ListEvents(r.Context())
	if err != nil {
		http.Error(w, "list events", http.StatusInternalServerError)
		return
	}

	type eventInfo struct {
		Key       string    `json:"key"`
		Location  string    `json:"location"`
		StartsAt  time.Time `json:"starts_at"`
		Program   string    `json:"program"`
		Conductor string    `json:"conductor"`
		Remaining int       `json:"remaining_tickets"`
	}
	resp := make([]eventInfo, 0, len(list))
	for _, item := range list {
		resp = append(resp, eventInfo{
			Key:       item.Event.Key,
			Location:  item.Event.Location,
			StartsAt:  item.Event.StartsAt,
			Program:   item.Event.Program,
			Conductor: item.Event.Conductor,
			Remaining: item.Remaining,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
