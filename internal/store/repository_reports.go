package store

import (
	"context"
	"time"
)

// BestProfession returns the contractor profession with the highest total of
// paid jobs whose payment date falls in [from, to).
func (s *Store) BestProfession(ctx context.Context, from, to time.Time) (*ProfessionEarnings, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT p.profession, SUM(j.price)::text AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid IS TRUE
		  AND j.payment_date >= $1
		  AND j.payment_date < $2
		GROUP BY p.profession
		ORDER BY SUM(j.price) DESC, p.profession ASC
		LIMIT 1
	`, from, to)
	var (
		out   ProfessionEarnings
		total string
	)
	if err := row.Scan(&out.Profession, &total); err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	t, err := numericVal(total)
	if err != nil {
		return nil, err
	}
	out.Total = t
	return &out, nil
}

// BestClients ranks clients by what they paid for jobs in [from, to).
func (s *Store) BestClients(ctx context.Context, from, to time.Time, limit int) ([]ClientPayments, error) {
	if limit <= 0 {
		limit = 2
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT p.id, p.first_name || ' ' || p.last_name AS full_name, SUM(j.price)::text AS paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid IS TRUE
		  AND j.payment_date >= $1
		  AND j.payment_date < $2
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY SUM(j.price) DESC, p.id ASC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ClientPayments{}
	for rows.Next() {
		var (
			cp   ClientPayments
			paid string
		)
		if err := rows.Scan(&cp.ClientID, &cp.FullName, &paid); err != nil {
			return nil, err
		}
		v, err := numericVal(paid)
		if err != nil {
			return nil, err
		}
		cp.Paid = v
		out = append(out, cp)
	}
	return out, rows.Err()
}
