package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	orders "ticketshop/internal/orders/domain"
)

// OrderRepository persists orders and tickets in Postgres.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository constructs a repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `reference_code, order_date, name, address, email, event_key,
	number_discount, number_regular, delete_code,
	is_deleted, delete_date, is_paid, payment_date,
	reminder_sent, reminder_date, warning_sent, warning_date,
	is_refunded, refund_date`

// FindByReferenceCode loads one order.
func (r *OrderRepository) FindByReferenceCode(ctx context.Context, code string) (*orders.Order, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("order repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE reference_code = $1
LIMIT 1`, code)
	return scanOrder(row)
}

// ReferenceCodeExists reports whether a code is already taken.
func (r *OrderRepository) ReferenceCodeExists(ctx context.Context, code string) (bool, error) {
	if r == nil || r.db == nil {
		return false, errors.New("order repo: nil db")
	}
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM orders WHERE reference_code = $1)`, code).Scan(&exists)
	return exists, err
}

// Create inserts an order together with its tickets.
func (r *OrderRepository) Create(ctx context.Context, order *orders.Order, tickets []orders.Ticket) error {
	if r == nil || r.db == nil {
		return errors.New("order repo: nil db")
	}
	if order == nil {
		return orders.ErrNilOrder
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO orders (`+orderColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		order.ReferenceCode, order.OrderDate, order.Name, order.Address, order.Email, order.EventKey,
		order.NumberDiscount, order.NumberRegular, order.DeleteCode,
		order.IsDeleted, nullTime(order.DeleteDate), order.IsPaid, nullTime(order.PaymentDate),
		order.ReminderSent, nullTime(order.ReminderDate), order.WarningSent, nullTime(order.WarningDate),
		order.IsRefunded, nullTime(order.RefundDate),
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, ticket := range tickets {
		_, err := tx.ExecContext(ctx, `
INSERT INTO tickets (ticket_code, type, order_reference)
VALUES ($1,$2,$3)`, ticket.Code, string(ticket.Type), ticket.OrderReference)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Save updates the mutable payment, cancellation and reminder state.
func (r *OrderRepository) Save(ctx context.Context, order *orders.Order) error {
	if r == nil || r.db == nil {
		return errors.New("order repo: nil db")
	}
	if order == nil {
		return orders.ErrNilOrder
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE orders SET
	is_deleted = $2, delete_date = $3,
	is_paid = $4, payment_date = $5,
	reminder_sent = $6, reminder_date = $7,
	warning_sent = $8, warning_date = $9,
	is_refunded = $10, refund_date = $11
WHERE reference_code = $1`,
		order.ReferenceCode,
		order.IsDeleted, nullTime(order.DeleteDate),
		order.IsPaid, nullTime(order.PaymentDate),
		order.ReminderSent, nullTime(order.ReminderDate),
		order.WarningSent, nullTime(order.WarningDate),
		order.IsRefunded, nullTime(order.RefundDate),
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return orders.ErrOrderNotFound
	}
	return err
}

// TicketsByOrder lists the tickets issued for an order.
func (r *OrderRepository) TicketsByOrder(ctx context.Context, code string) ([]orders.Ticket, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("order repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT ticket_code, type, order_reference
FROM tickets
WHERE order_reference = $1
ORDER BY ticket_code`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []orders.Ticket
	for rows.Next() {
		var ticket orders.Ticket
		var ticketType string
		if err := rows.Scan(&ticket.Code, &ticketType, &ticket.OrderReference); err != nil {
			return nil, err
		}
		ticket.Type = orders.TicketType(ticketType)
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

// ListDueFirstReminders returns unpaid, uncancelled orders placed on or
// before the cutoff without any reminder or warning yet.
func (r *OrderRepository) ListDueFirstReminders(ctx context.Context, cutoff time.Time) ([]*orders.Order, error) {
	return r.listOrders(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE order_date <= $1
	AND is_paid = FALSE AND is_deleted = FALSE
	AND reminder_sent = FALSE AND warning_sent = FALSE
ORDER BY order_date`, cutoff)
}

// ListDueWarnings returns unpaid, uncancelled orders whose first reminder
// dates on or before the cutoff and that have no warning yet.
func (r *OrderRepository) ListDueWarnings(ctx context.Context, cutoff time.Time) ([]*orders.Order, error) {
	return r.listOrders(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE is_paid = FALSE AND is_deleted = FALSE
	AND reminder_sent = TRUE AND reminder_date <= $1
	AND warning_sent = FALSE
ORDER BY reminder_date`, cutoff)
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]*orders.Order, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("order repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*orders.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*orders.Order, error) {
	var order orders.Order
	var deleteDate, paymentDate, reminderDate, warningDate, refundDate sql.NullTime
	err := row.Scan(
		&order.ReferenceCode, &order.OrderDate, &order.Name, &order.Address, &order.Email, &order.EventKey,
		&order.NumberDiscount, &order.NumberRegular, &order.DeleteCode,
		&order.IsDeleted, &deleteDate, &order.IsPaid, &paymentDate,
		&order.ReminderSent, &reminderDate, &order.WarningSent, &warningDate,
		&order.IsRefunded, &refundDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, orders.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	order.DeleteDate = timeOrZero(deleteDate)
	order.PaymentDate = timeOrZero(paymentDate)
	order.ReminderDate = timeOrZero(reminderDate)
	order.WarningDate = timeOrZero(warningDate)
	order.RefundDate = timeOrZero(refundDate)
	return &order, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func timeOrZero(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Time{}
}
