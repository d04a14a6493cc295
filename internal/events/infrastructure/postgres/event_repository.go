package postgres

import (
	"context"
	"database/sql"
	"errors"

	events "ticketshop/internal/events/domain"
)

// EventRepository reads concert master data from Postgres.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository constructs a repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Get loads one event by key.
func (r *EventRepository) Get(ctx context.Context, key string) (*events.Event, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("event repo: nil db")
	}
	var event events.Event
	err := r.db.QueryRowContext(ctx, `
SELECT key, location, starts_at, program, conductor, max_tickets, is_active
FROM events
WHERE key = $1
LIMIT 1`, key).Scan(
		&event.Key, &event.Location, &event.StartsAt, &event.Program,
		&event.Conductor, &event.MaxTickets, &event.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, events.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// TicketsSold counts tickets on uncancelled orders for an event.
func (r *EventRepository) TicketsSold(ctx context.Context, key string) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("event repo: nil db")
	}
	var sold int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM tickets t
JOIN orders o ON o.reference_code = t.order_reference
WHERE o.event_key = $1 AND o.is_deleted = FALSE`, key).Scan(&sold)
	return sold, err
}

// ListActive returns active events with sold and remaining ticket counts.
func (r *EventRepository) ListActive(ctx context.Context) ([]events.Availability, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("event repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT e.key, e.location, e.starts_at, e.program, e.conductor, e.max_tickets, e.is_active,
	COUNT(t.ticket_code) FILTER (WHERE t.type = 'REGULAR' AND o.is_deleted = FALSE),
	COUNT(t.ticket_code) FILTER (WHERE t.type = 'DISCOUNT' AND o.is_deleted = FALSE)
FROM events e
LEFT JOIN orders o ON o.event_key = e.key
LEFT JOIN tickets t ON t.order_reference = o.reference_code
WHERE e.is_active = TRUE
GROUP BY e.key, e.location, e.starts_at, e.program, e.conductor, e.max_tickets, e.is_active
ORDER BY e.starts_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []events.Availability
	for rows.Next() {
		var item events.Availability
		if err := rows.Scan(
			&item.Event.Key, &item.Event.Location, &item.Event.StartsAt, &item.Event.Program,
			&item.Event.Conductor, &item.Event.MaxTickets, &item.Event.IsActive,
			&item.RegularSold, &item.DiscountSold,
		); err != nil {
			return nil, err
		}
		item.Remaining = max(item.Event.MaxTickets-item.RegularSold-item.DiscountSold, 0)
		result = append(result, item)
	}
	return result, rows.Err()
}
