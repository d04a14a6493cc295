package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	events "ticketshop/internal/events/domain"
	orders "ticketshop/internal/orders/domain"
)

// OrderRepository persists orders and their tickets.
type OrderRepository interface {
	FindByReferenceCode(ctx context.Context, code string) (*orders.Order, error)
	ReferenceCodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, order *orders.Order, tickets []orders.Ticket) error
	Save(ctx context.Context, order *orders.Order) error
	TicketsByOrder(ctx context.Context, code string) ([]orders.Ticket, error)
}

// EventRepository reads concert master data.
type EventRepository interface {
	Get(ctx context.Context, key string) (*events.Event, error)
	TicketsSold(ctx context.Context, key string) (int, error)
	ListActive(ctx context.Context) ([]events.Availability, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// NewOrder is a request to create an order.
type NewOrder struct {
	Name           string
	Address        string
	Email          string
	EventKey       string
	NumberDiscount int
	NumberRegular  int
}

// Service handles the order use cases around the reconciliation core.
type Service struct {
	repo   OrderRepository
	events EventRepository
	cfg    Config
	clock  Clock
}

// NewService constructs the order service.
func NewService(repo OrderRepository, eventRepo EventRepository, cfg Config, clock Clock) (*Service, error) {
	if repo == nil {
		return nil, errors.New("order service: nil order repository")
	}
	if eventRepo == nil {
		return nil, errors.New("order service: nil event repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{repo: repo, events: eventRepo, cfg: cfg, clock: clock}, nil
}

// CreateOrder validates sale window and remaining capacity, generates the
// reference and delete codes, issues one ticket per seat and persists it
// all in one go.
func (s *Service) CreateOrder(ctx context.Context, req NewOrder) (*orders.Order, error) {
	if req.NumberDiscount < 0 || req.NumberRegular < 0 {
		return nil, orders.ErrNegativeTickets
	}
	if req.NumberDiscount+req.NumberRegular == 0 {
		return nil, orders.ErrNoTickets
	}
	event, err := s.events.Get(ctx, req.EventKey)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if event.StartsAt.Sub(now) <= s.cfg.SaleClose() {
		return nil, fmt.Errorf("%w: orders close %d hours before concert start", orders.ErrSaleClosed, s.cfg.SaleCloseHoursBeforeConcert)
	}

	sold, err := s.events.TicketsSold(ctx, event.Key)
	if err != nil {
		return nil, err
	}
	remaining := event.MaxTickets - sold
	if remaining < req.NumberDiscount+req.NumberRegular {
		return nil, fmt.Errorf("%w: %d left", orders.ErrNotEnoughTickets, max(remaining, 0))
	}

	code, err := orders.NewReferenceCode(func(candidate string) (bool, error) {
		return s.repo.ReferenceCodeExists(ctx, candidate)
	})
	if err != nil {
		return nil, fmt.Errorf("order service: generate reference code: %w", err)
	}

	order := &orders.Order{
		ReferenceCode:  code,
		OrderDate:      now,
		Name:           req.Name,
		Address:        req.Address,
		Email:          req.Email,
		EventKey:       event.Key,
		NumberDiscount: req.NumberDiscount,
		NumberRegular:  req.NumberRegular,
		DeleteCode:     orders.NewDeleteCode(),
	}
	tickets := orders.IssueTickets(order)
	if err := s.repo.Create(ctx, order, tickets); err != nil {
		return nil, fmt.Errorf("order service: create order: %w", err)
	}
	return order, nil
}

// DeleteOrder cancels an order. The delete code from the cancellation link
// must match and the concert must still be far enough away.
func (s *Service) DeleteOrder(ctx context.Context, referenceCode, deleteCode string) (*orders.Order, error) {
	order, err := s.repo.FindByReferenceCode(ctx, referenceCode)
	if err != nil {
		return nil, err
	}
	if order.DeleteCode != deleteCode {
		return nil, orders.ErrInvalidDeleteCode
	}

	event, err := s.events.Get(ctx, order.EventKey)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if event.StartsAt.Sub(now) < s.cfg.DeleteWindow() {
		return nil, fmt.Errorf("%w: cancellation closes %d days before concert start", orders.ErrDeleteWindowClosed, s.cfg.DeleteDaysBeforeConcert)
	}

	order.IsDeleted = true
	order.DeleteDate = now
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("order service: save order: %w", err)
	}
	return order, nil
}

// OrderWithTickets loads an order together with its issued tickets.
func (s *Service) OrderWithTickets(ctx context.Context, referenceCode string) (*orders.Order, []orders.Ticket, error) {
	order, err := s.repo.FindByReferenceCode(ctx, referenceCode)
	if err != nil {
		return nil, nil, err
	}
	tickets, err := s.repo.TicketsByOrder(ctx, referenceCode)
	if err != nil {
		return nil, nil, err
	}
	return order, tickets, nil
}

// EventByKey loads one concert.
func (s *Service) EventByKey(ctx context.Context, key string) (*events.Event, error) {
	return s.events.Get(ctx, key)
}

// ListEvents returns the active concerts with their ticket availability.
func (s *Service) ListEvents(ctx context.Context) ([]events.Availability, error) {
	return s.events.ListActive(ctx)
}

// ExpectedAmount returns the total price of an order.
func (s *Service) ExpectedAmount(order *orders.Order) decimal.Decimal {
	return s.cfg.Prices().ExpectedAmount(order.NumberDiscount, order.NumberRegular)
}
