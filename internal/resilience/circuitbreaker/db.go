// Package circuitbreaker adds a database-flavored circuit breaker on top
// of the generic one, tuned for *sql.DB call patterns.
package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DBCircuitBreaker guards a *sql.DB behind a circuit breaker so a failing
// or slow database doesn't cascade into every caller blocking on it.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig is tuned for database workloads: 5 consecutive failures trips
// the breaker open for 30s before allowing probe traffic again.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDBCircuitBreaker wraps db with the default DBConfig.
func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

// NewDBCircuitBreakerWithConfig wraps db with a caller-supplied Config.
func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{cb: New(cfg), db: db}
}

// QueryContext runs a query through the breaker; if the breaker is open it
// fails fast with ErrOpenState instead of touching the database.
func (d *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	result, err := d.cb.Execute(func() (interface{}, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// ExecContext runs a statement through the breaker; if the breaker is open
// it fails fast with ErrOpenState instead of touching the database.
func (d *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := d.cb.Execute(func() (interface{}, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(sql.Result), nil
}

// QueryRowContext passes straight through to *sql.DB: sql.Row defers its
// error until Scan is called, so the breaker can't observe the outcome
// here and offers no protection on this path.
func (d *DBCircuitBreaker) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

// State returns the breaker's current state.
func (d *DBCircuitBreaker) State() gobreaker.State { return d.cb.State() }

// IsOpen reports whether the breaker is currently open.
func (d *DBCircuitBreaker) IsOpen() bool { return d.cb.IsOpen() }

// DB returns the wrapped connection for callers that need to bypass the
// breaker entirely.
func (d *DBCircuitBreaker) DB() *sql.DB { return d.db }
