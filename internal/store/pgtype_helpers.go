package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Postgres SQLSTATEs that mean "someone else holds the row, try again".
const (
	sqlStateLockNotAvailable     = "55P03"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateSerializationFailure = "40001"

	sqlStateNumericOutOfRange = "22003"
)

func mapNotFound(err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return mapPgError(err)
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateLockNotAvailable, sqlStateDeadlockDetected, sqlStateSerializationFailure:
			return fmt.Errorf("%w: %s", ErrLockConflict, pgErr.Message)
		case sqlStateNumericOutOfRange:
			return fmt.Errorf("%w: %s", ErrAmountOutOfRange, pgErr.Message)
		}
	}
	return err
}

// Money travels as text so NUMERIC precision survives both directions.
func numericParam(v decimal.Decimal) string {
	return v.String()
}

func numericVal(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse numeric %q: %w", v, err)
	}
	return d, nil
}

func textParam(v string) pgtype.Text {
	if v == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: v, Valid: true}
}

func textVal(v pgtype.Text) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func boolVal(v pgtype.Bool) bool {
	return v.Valid && v.Bool
}

func timeParam(v *time.Time) pgtype.Timestamptz {
	if v == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *v, Valid: true}
}

func timePtrVal(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	out := v.Time
	return &out
}
