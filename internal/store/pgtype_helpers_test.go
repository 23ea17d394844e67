package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{code: sqlStateLockNotAvailable, want: ErrLockConflict},
		{code: sqlStateDeadlockDetected, want: ErrLockConflict},
		{code: sqlStateSerializationFailure, want: ErrLockConflict},
		{code: sqlStateNumericOutOfRange, want: ErrAmountOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := mapPgError(&pgconn.PgError{Code: tt.code, Message: "numeric field overflow"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("mapPgError(%s) = %v, want %v", tt.code, err, tt.want)
			}
		})
	}

	unique := &pgconn.PgError{Code: "23505"}
	if got := mapPgError(unique); got != unique {
		t.Fatalf("unmapped code changed: %v", got)
	}
	if mapPgError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}
