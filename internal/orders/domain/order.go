package orders

import "time"

// Order is a ticket order identified by its payment reference code. Zero
// time values stand for "not set"; the repositories map them to NULL.
type Order struct {
	ReferenceCode  string
	OrderDate      time.Time
	Name           string
	Address        string
	Email          string
	EventKey       string
	NumberDiscount int
	NumberRegular  int
	DeleteCode     string

	IsDeleted  bool
	DeleteDate time.Time

	IsPaid      bool
	PaymentDate time.Time

	ReminderSent bool
	ReminderDate time.Time
	WarningSent  bool
	WarningDate  time.Time

	IsRefunded bool
	RefundDate time.Time
}

// NumTickets returns the total seat count of the order.
func (o *Order) NumTickets() int {
	return o.NumberDiscount + o.NumberRegular
}

// Clone returns a detached copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	copy := *o
	return &copy
}
