package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const selectContractSQL = `SELECT id, terms, status, client_id, contractor_id, created_at, updated_at FROM contracts`

func scanContract(row pgx.Row) (Contract, error) {
	var c Contract
	if err := row.Scan(&c.ID, &c.Terms, &c.Status, &c.ClientID, &c.ContractorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Contract{}, mapNotFound(err, ErrContractNotFound)
	}
	return c, nil
}

func (s *Store) CreateContract(ctx context.Context, c Contract) (string, error) {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.Status == "" {
		c.Status = ContractNew
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO contracts (id, terms, status, client_id, contractor_id)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Terms, string(c.Status), c.ClientID, c.ContractorID)
	if err != nil {
		return "", mapPgError(err)
	}
	return c.ID, nil
}

// GetContractForProfile returns the contract only if profileID is its client
// or its contractor.
func (s *Store) GetContractForProfile(ctx context.Context, contractID, profileID string) (*Contract, error) {
	c, err := scanContract(s.Pool.QueryRow(ctx, selectContractSQL+`
		WHERE id = $1 AND (client_id = $2 OR contractor_id = $2)`, contractID, profileID))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListActiveContracts(ctx context.Context, profileID string) ([]Contract, error) {
	rows, err := s.Pool.Query(ctx, selectContractSQL+`
		WHERE (client_id = $1 OR contractor_id = $1) AND status = 'in_progress'
		ORDER BY created_at ASC`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
