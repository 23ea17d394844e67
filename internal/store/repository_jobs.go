package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const selectJobSQL = `SELECT id, contract_id, description, price::text, paid, payment_date, created_at, updated_at FROM jobs`

func scanJob(row pgx.Row) (Job, error) {
	var (
		j           Job
		contractID  pgtype.Text
		price       string
		paid        pgtype.Bool
		paymentDate pgtype.Timestamptz
	)
	if err := row.Scan(&j.ID, &contractID, &j.Description, &price, &paid, &paymentDate, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return Job{}, mapNotFound(err, ErrJobNotFound)
	}
	p, err := numericVal(price)
	if err != nil {
		return Job{}, err
	}
	j.ContractID = textVal(contractID)
	j.Price = p
	j.Paid = boolVal(paid)
	j.PaymentDate = timePtrVal(paymentDate)
	return j, nil
}

func (s *Store) CreateJob(ctx context.Context, j Job) (string, error) {
	if j.ID == "" {
		j.ID = NewID()
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO jobs (id, contract_id, description, price, paid, payment_date)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
	`, j.ID, textParam(j.ContractID), j.Description, numericParam(j.Price), j.Paid, timeParam(j.PaymentDate))
	if err != nil {
		return "", mapPgError(err)
	}
	return j.ID, nil
}

// GetJob reads a job without locking it.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	j, err := scanJob(s.Pool.QueryRow(ctx, selectJobSQL+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// ListUnpaidJobs returns unpaid jobs on in_progress contracts where the
// profile is either party.
func (s *Store) ListUnpaidJobs(ctx context.Context, profileID string) ([]Job, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT j.id, j.contract_id, j.description, j.price::text, j.paid, j.payment_date, j.created_at, j.updated_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE (c.client_id = $1 OR c.contractor_id = $1)
		  AND c.status = 'in_progress'
		  AND j.paid IS NOT TRUE
		ORDER BY j.created_at ASC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
