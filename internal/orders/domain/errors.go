package orders

import "errors"

var (
	// ErrOrderNotFound is returned when no order carries a reference code.
	ErrOrderNotFound = errors.New("orders: order not found")
	// ErrNilOrder is returned when saving a nil order.
	ErrNilOrder = errors.New("orders: nil order")
	// ErrInvalidDeleteCode is returned when a cancellation uses a wrong code.
	ErrInvalidDeleteCode = errors.New("orders: invalid delete code")
	// ErrDeleteWindowClosed is returned when cancelling too close to the concert.
	ErrDeleteWindowClosed = errors.New("orders: delete window closed")
	// ErrSaleClosed is returned when ordering after online sale close.
	ErrSaleClosed = errors.New("orders: online sale closed")
	// ErrNotEnoughTickets is returned when an order exceeds remaining capacity.
	ErrNotEnoughTickets = errors.New("orders: not enough tickets remaining")
	// ErrNoTickets is returned when an order requests zero tickets.
	ErrNoTickets = errors.New("orders: order must contain at least one ticket")
	// ErrNegativeTickets is returned when an order carries a negative count.
	ErrNegativeTickets = errors.New("orders: ticket counts must not be negative")
)
