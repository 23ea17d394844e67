package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const selectAccountSQL = `SELECT id, first_name, last_name, profession, role, balance::text, created_at, updated_at FROM profiles`

func scanAccount(row pgx.Row) (Account, error) {
	var (
		a   Account
		bal string
	)
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Profession, &a.Role, &bal, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return Account{}, mapNotFound(err, ErrAccountNotFound)
	}
	balance, err := numericVal(bal)
	if err != nil {
		return Account{}, err
	}
	a.Balance = balance
	return a, nil
}

// GetAccount reads a profile without locking it.
func (s *Store) GetAccount(ctx context.Context, id string) (*Account, error) {
	a, err := scanAccount(s.Pool.QueryRow(ctx, selectAccountSQL+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a Account) (string, error) {
	if a.Role != RoleClient && a.Role != RoleContractor {
		return "", errors.New("invalid role")
	}
	if a.ID == "" {
		a.ID = NewID()
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO profiles (id, first_name, last_name, profession, role, balance)
		VALUES ($1, $2, $3, $4, $5, $6::numeric)
	`, a.ID, a.FirstName, a.LastName, a.Profession, string(a.Role), numericParam(a.Balance))
	if err != nil {
		return "", mapPgError(err)
	}
	return a.ID, nil
}
