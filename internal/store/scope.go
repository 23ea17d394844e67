package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Scope is the row-locked view of the ledger a single payment or deposit
// works through. Every Lock* call holds its rows until the Scope commits or
// rolls back; Save* writes become visible to others only on commit.
type Scope interface {
	LockAccount(ctx context.Context, id string) (Account, error)
	LockJob(ctx context.Context, id string) (Job, error)
	LockContract(ctx context.Context, id string) (Contract, error)
	LockJobWithContract(ctx context.Context, jobID string) (Job, Contract, error)
	SumUnpaidDue(ctx context.Context, clientID string) (decimal.Decimal, error)
	SaveAccount(ctx context.Context, a Account) error
	SaveJob(ctx context.Context, j Job) error
}

// TxScope is a Scope backed by one Postgres transaction.
type TxScope struct {
	tx   pgx.Tx
	done bool
}

var _ Scope = (*TxScope)(nil)

func (s *Store) BeginScope(ctx context.Context) (*TxScope, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, mapPgError(err)
	}
	if s.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			_ = tx.Rollback(ctx)
			return nil, mapPgError(err)
		}
	}
	return &TxScope{tx: tx}, nil
}

func (sc *TxScope) Commit(ctx context.Context) error {
	if sc.done {
		return pgx.ErrTxClosed
	}
	sc.done = true
	return mapPgError(sc.tx.Commit(ctx))
}

// Rollback discards the scope. It is a no-op once the scope has finished.
func (sc *TxScope) Rollback(ctx context.Context) error {
	if sc.done {
		return nil
	}
	sc.done = true
	err := sc.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// InScope runs fn inside a fresh scope and commits if fn returns nil. Any
// error or panic from fn rolls the scope back before it propagates.
func (s *Store) InScope(ctx context.Context, fn func(context.Context, Scope) error) (err error) {
	sc, err := s.BeginScope(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sc.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			if rbErr := sc.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				log.Warn().Err(rbErr).Msg("scope rollback failed")
			}
		}
	}()
	if err = fn(ctx, sc); err != nil {
		return err
	}
	return sc.Commit(ctx)
}

func (sc *TxScope) LockAccount(ctx context.Context, id string) (Account, error) {
	return scanAccount(sc.tx.QueryRow(ctx, selectAccountSQL+` WHERE id = $1 FOR UPDATE`, id))
}

func (sc *TxScope) LockJob(ctx context.Context, id string) (Job, error) {
	return scanJob(sc.tx.QueryRow(ctx, selectJobSQL+` WHERE id = $1 FOR UPDATE`, id))
}

func (sc *TxScope) LockContract(ctx context.Context, id string) (Contract, error) {
	return scanContract(sc.tx.QueryRow(ctx, selectContractSQL+` WHERE id = $1 FOR UPDATE`, id))
}

// LockJobWithContract locks the job row first, then its contract row.
func (sc *TxScope) LockJobWithContract(ctx context.Context, jobID string) (Job, Contract, error) {
	job, err := sc.LockJob(ctx, jobID)
	if err != nil {
		return Job{}, Contract{}, err
	}
	if job.ContractID == "" {
		return Job{}, Contract{}, ErrContractNotFound
	}
	contract, err := sc.LockContract(ctx, job.ContractID)
	if err != nil {
		return Job{}, Contract{}, err
	}
	return job, contract, nil
}

// SumUnpaidDue totals unpaid job prices on the client's in_progress
// contracts. The job rows stay share-locked so a concurrent payment cannot
// flip them under the caller.
func (sc *TxScope) SumUnpaidDue(ctx context.Context, clientID string) (decimal.Decimal, error) {
	rows, err := sc.tx.Query(ctx, `
		SELECT j.price::text
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = $1
		  AND c.status = 'in_progress'
		  AND j.paid IS NOT TRUE
		ORDER BY j.id
		FOR SHARE OF j
	`, clientID)
	if err != nil {
		return decimal.Zero, mapPgError(err)
	}
	defer rows.Close()
	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, err
		}
		price, err := numericVal(raw)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(price)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, mapPgError(err)
	}
	return total, nil
}

func (sc *TxScope) SaveAccount(ctx context.Context, a Account) error {
	tag, err := sc.tx.Exec(ctx, `UPDATE profiles SET balance = $2::numeric, updated_at = now() WHERE id = $1`, a.ID, numericParam(a.Balance))
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (sc *TxScope) SaveJob(ctx context.Context, j Job) error {
	tag, err := sc.tx.Exec(ctx, `UPDATE jobs SET paid = $2, payment_date = $3, updated_at = now() WHERE id = $1`, j.ID, j.Paid, timeParam(j.PaymentDate))
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}
