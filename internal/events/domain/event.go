package events

import (
	"errors"
	"time"
)

// ErrEventNotFound is returned when no concert carries a key.
var ErrEventNotFound = errors.New("events: event not found")

// Event is a concert tickets are sold for.
type Event struct {
	Key        string
	Location   string
	StartsAt   time.Time
	Program    string
	Conductor  string
	MaxTickets int
	IsActive   bool
}

// Availability describes ticket counts of one event for the listing API.
type Availability struct {
	Event        Event
	RegularSold  int
	DiscountSold int
	Remaining    int
}
