package reconciliation

import "errors"

var (
	// ErrStatementHeader is returned when the statement header is unreadable
	// or misses a required column.
	ErrStatementHeader = errors.New("reconciliation: invalid statement header")
	// ErrMalformedRow is returned when a statement row carries an unparseable
	// booking date or amount.
	ErrMalformedRow = errors.New("reconciliation: malformed statement row")
)
