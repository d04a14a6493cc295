package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	orders "ticketshop/internal/orders/domain"
)

// OrderRepository is an in-memory order store used by unit tests.
type OrderRepository struct {
	mu      sync.RWMutex
	data    map[string]*orders.Order
	tickets map[string][]orders.Ticket
}

// NewOrderRepository constructs a repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		data:    make(map[string]*orders.Order),
		tickets: make(map[string][]orders.Ticket),
	}
}

// FindByReferenceCode loads one order.
func (r *OrderRepository) FindByReferenceCode(ctx context.Context, code string) (*orders.Order, error) {
	_ = ctx
	r.mu.RLock()
	order := r.data[code]
	r.mu.RUnlock()
	if order == nil {
		return nil, orders.ErrOrderNotFound
	}
	return order.Clone(), nil
}

// ReferenceCodeExists reports whether a code is taken.
func (r *OrderRepository) ReferenceCodeExists(ctx context.Context, code string) (bool, error) {
	_ = ctx
	r.mu.RLock()
	_, ok := r.data[code]
	r.mu.RUnlock()
	return ok, nil
}

// Create inserts an order and its tickets.
func (r *OrderRepository) Create(ctx context.Context, order *orders.Order, tickets []orders.Ticket) error {
	_ = ctx
	if order == nil {
		return orders.ErrNilOrder
	}
	r.mu.Lock()
	r.data[order.ReferenceCode] = order.Clone()
	r.tickets[order.ReferenceCode] = append([]orders.Ticket(nil), tickets...)
	r.mu.Unlock()
	return nil
}

// Save overwrites an existing order.
func (r *OrderRepository) Save(ctx context.Context, order *orders.Order) error {
	_ = ctx
	if order == nil {
		return orders.ErrNilOrder
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[order.ReferenceCode]; !ok {
		return orders.ErrOrderNotFound
	}
	r.data[order.ReferenceCode] = order.Clone()
	return nil
}

// TicketsByOrder lists the tickets of an order.
func (r *OrderRepository) TicketsByOrder(ctx context.Context, code string) ([]orders.Ticket, error) {
	_ = ctx
	r.mu.RLock()
	tickets := append([]orders.Ticket(nil), r.tickets[code]...)
	r.mu.RUnlock()
	return tickets, nil
}

// ListDueFirstReminders mirrors the Postgres reminder query.
func (r *OrderRepository) ListDueFirstReminders(ctx context.Context, cutoff time.Time) ([]*orders.Order, error) {
	_ = ctx
	return r.list(func(o *orders.Order) bool {
		return !o.OrderDate.After(cutoff) &&
			!o.IsPaid && !o.IsDeleted && !o.ReminderSent && !o.WarningSent
	}), nil
}

// ListDueWarnings mirrors the Postgres warning query.
func (r *OrderRepository) ListDueWarnings(ctx context.Context, cutoff time.Time) ([]*orders.Order, error) {
	_ = ctx
	return r.list(func(o *orders.Order) bool {
		return !o.IsPaid && !o.IsDeleted &&
			o.ReminderSent && !o.ReminderDate.After(cutoff) && !o.WarningSent
	}), nil
}

func (r *OrderRepository) list(keep func(*orders.Order) bool) []*orders.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*orders.Order
	for _, order := range r.data {
		if keep(order) {
			result = append(result, order.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ReferenceCode < result[j].ReferenceCode
	})
	return result
}
