package memory

import (
	"context"
	"sort"
	"sync"

	events "ticketshop/internal/events/domain"
)

// EventRepository is an in-memory event store used by unit tests.
type EventRepository struct {
	mu   sync.RWMutex
	data map[string]*events.Event
	sold map[string]int
}

// NewEventRepository constructs a repository.
func NewEventRepository() *EventRepository {
	return &EventRepository{
		data: make(map[string]*events.Event),
		sold: make(map[string]int),
	}
}

// Put stores an event.
func (r *EventRepository) Put(event events.Event) {
	r.mu.Lock()
	r.data[event.Key] = &event
	r.mu.Unlock()
}

// SetTicketsSold fixes the sold counter for an event.
func (r *EventRepository) SetTicketsSold(key string, sold int) {
	r.mu.Lock()
	r.sold[key] = sold
	r.mu.Unlock()
}

// Get loads one event by key.
func (r *EventRepository) Get(ctx context.Context, key string) (*events.Event, error) {
	_ = ctx
	r.mu.RLock()
	event := r.data[key]
	r.mu.RUnlock()
	if event == nil {
		return nil, events.ErrEventNotFound
	}
	copy := *event
	return &copy, nil
}

// TicketsSold returns the fixed sold counter.
func (r *EventRepository) TicketsSold(ctx context.Context, key string) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sold[key], nil
}

// ListActive returns active events with availability.
func (r *EventRepository) ListActive(ctx context.Context) ([]events.Availability, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []events.Availability
	for key, event := range r.data {
		if !event.IsActive {
			continue
		}
		result = append(result, events.Availability{
			Event:     *event,
			Remaining: max(event.MaxTickets-r.sold[key], 0),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Event.StartsAt.Before(result[j].Event.StartsAt)
	})
	return result, nil
}
