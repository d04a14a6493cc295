package orders

import "github.com/google/uuid"

// TicketType distinguishes full-price and discounted seats.
type TicketType string

const (
	TicketRegular  TicketType = "REGULAR"
	TicketDiscount TicketType = "DISCOUNT"
)

// DisplayName returns the German label printed on tickets.
func (t TicketType) DisplayName() string {
	if t == TicketDiscount {
		return "Ermäßigt"
	}
	return "Vollpreis"
}

// Ticket is one issued seat belonging to an order.
type Ticket struct {
	Code           string
	Type           TicketType
	OrderReference string
}

// IssueTickets creates one ticket per ordered seat with fresh random codes.
func IssueTickets(order *Order) []Ticket {
	if order == nil {
		return nil
	}
	tickets := make([]Ticket, 0, order.NumTickets())
	for i := 0; i < order.NumberDiscount; i++ {
		tickets = append(tickets, Ticket{Code: uuid.NewString(), Type: TicketDiscount, OrderReference: order.ReferenceCode})
	}
	for i := 0; i < order.NumberRegular; i++ {
		tickets = append(tickets, Ticket{Code: uuid.NewString(), Type: TicketRegular, OrderReference: order.ReferenceCode})
	}
	return tickets
}
