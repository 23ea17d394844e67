package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("not found")

	ErrAccountNotFound  = fmt.Errorf("account %w", ErrNotFound)
	ErrJobNotFound      = fmt.Errorf("job %w", ErrNotFound)
	ErrContractNotFound = fmt.Errorf("contract %w", ErrNotFound)

	// ErrLockConflict means a row lock could not be taken in time, or the
	// database aborted the transaction to break a deadlock. Safe to retry.
	ErrLockConflict = errors.New("lock conflict")

	// ErrAmountOutOfRange means a balance or price overflowed NUMERIC(12,2).
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// MaxBalance is the largest value a NUMERIC(12,2) balance column holds.
var MaxBalance = decimal.RequireFromString("9999999999.99")

// Store wraps DB access.
type Store struct {
	Pool        *pgxpool.Pool
	dsn         string
	lockTimeout time.Duration
}

// New opens a pool. lockTimeout bounds every row-lock wait inside a Scope;
// zero leaves the server default in place.
func New(dsn string, lockTimeout time.Duration) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool, dsn: dsn, lockTimeout: lockTimeout}, nil
}

func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}
