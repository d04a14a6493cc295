package interfaces

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	events "ticketshop/internal/events/domain"
	eventsmemory "ticketshop/internal/events/infrastructure/memory"
	"ticketshop/internal/orders/application"
	"ticketshop/internal/orders/infrastructure/memory"
)

func newOrderFixture(t *testing.T) (*OrderHandler, *EventsHandler, *eventsmemory.EventRepository) {
	t.Helper()
	cfg, err := application.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	orderRepo := memory.NewOrderRepository()
	eventRepo := eventsmemory.NewEventRepository()
	eventRepo.Put(events.Event{
		Key:        "sommerkonzert",
		Location:   "Stadthalle",
		StartsAt:   time.Now().UTC().AddDate(0, 1, 0),
		Program:    "Beethoven 7",
		Conductor:  "M. Muster",
		MaxTickets: 100,
		IsActive:   true,
	})

	service, err := application.NewService(orderRepo, eventRepo, cfg, application.SystemClock{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	orderHandler, err := NewOrderHandler(service, cfg, nil)
	if err != nil {
		t.Fatalf("new order handler: %v", err)
	}
	eventsHandler, err := NewEventsHandler(service)
	if err != nil {
		t.Fatalf("new events handler: %v", err)
	}
	return orderHandler, eventsHandler, eventRepo
}

func createOrder(t *testing.T, handler *OrderHandler) map[string]any {
	t.Helper()
	body := `{"name":"Erika Musterfrau","address":"Musterweg 1","email":"erika@example.org","event_key":"sommerkonzert","number_discount":1,"number_regular":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func TestCreateOrderEndpoint(t *testing.T) {
	handler, _, _ := newOrderFixture(t)
	payload := createOrder(t, handler)

	reference, _ := payload["reference_code"].(string)
	if len(reference) != 8 {
		t.Fatalf("expected 8-character reference code, got %q", reference)
	}
	if payload["delete_code"] == "" {
		t.Fatal("expected delete code in response")
	}
	if payload["total_amount"] != "48.00" {
		t.Fatalf("expected total 48.00, got %v", payload["total_amount"])
	}
	if payload["payment_reference"] != "Karten "+reference {
		t.Fatalf("unexpected payment reference %v", payload["payment_reference"])
	}
}

func TestCreateOrderEndpointValidation(t *testing.T) {
	handler, _, _ := newOrderFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"email":"x@example.org"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCreateOrderEndpointRejectsNegativeCounts(t *testing.T) {
	handler, _, _ := newOrderFixture(t)

	body := `{"name":"Erika","email":"erika@example.org","event_key":"sommerkonzert","number_discount":-1,"number_regular":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateOrderEndpointUnknownEvent(t *testing.T) {
	handler, _, _ := newOrderFixture(t)

	body := `{"name":"Erika","email":"x@example.org","event_key":"gibtsnicht","number_regular":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeleteOrderEndpoint(t *testing.T) {
	handler, _, _ := newOrderFixture(t)
	payload := createOrder(t, handler)
	reference := payload["reference_code"].(string)
	deleteCode := payload["delete_code"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+reference+"?delete_code="+deleteCode, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result["deleted"] != true {
		t.Fatalf("expected deleted=true, got %v", result["deleted"])
	}
}

func TestDeleteOrderEndpointWrongCode(t *testing.T) {
	handler, _, _ := newOrderFixture(t)
	payload := createOrder(t, handler)
	reference := payload["reference_code"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+reference+"?delete_code=falsch", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestDeleteOrderEndpointMissingCode(t *testing.T) {
	handler, _, _ := newOrderFixture(t)
	payload := createOrder(t, handler)
	reference := payload["reference_code"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+reference, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	handler, _, _ := newOrderFixture(t)
	payload := createOrder(t, handler)
	reference := payload["reference_code"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+reference, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var order map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if order["event_key"] != "sommerkonzert" {
		t.Fatalf("expected event key, got %v", order["event_key"])
	}
	tickets, ok := order["tickets"].([]any)
	if !ok || len(tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %v", order["tickets"])
	}
}

func TestInvoiceEndpoint(t *testing.T) {
	handler, _, _ := newOrderFixture(t)
	payload := createOrder(t, handler)
	reference := payload["reference_code"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+reference+"/invoice.pdf", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", got)
	}
	if !strings.HasPrefix(resp.Body.String(), "%PDF") {
		t.Fatal("expected PDF magic bytes")
	}
}

func TestEventsEndpoint(t *testing.T) {
	_, handler, eventRepo := newOrderFixture(t)
	eventRepo.SetTicketsSold("sommerkonzert", 40)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var list []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 event, got %d", len(list))
	}
	if list[0]["key"] != "sommerkonzert" {
		t.Fatalf("expected sommerkonzert, got %v", list[0]["key"])
	}
	if list[0]["remaining_tickets"] != float64(60) {
		t.Fatalf("expected 60 remaining, got %v", list[0]["remaining_tickets"])
	}
}
