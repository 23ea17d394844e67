// Package admin answers the reporting queries over paid jobs.
package admin

import (
	"context"
	"errors"
	"time"

	"marketplace-ledger/internal/ledger"
	"marketplace-ledger/internal/store"
)

var ErrNoPaidJobs = errors.New("no_paid_jobs")

type Reports interface {
	BestProfession(ctx context.Context, from, to time.Time) (*store.ProfessionEarnings, error)
	BestClients(ctx context.Context, from, to time.Time, limit int) ([]store.ClientPayments, error)
}

type Service struct {
	store Reports
}

func NewService(st Reports) *Service {
	return &Service{store: st}
}

// window turns an inclusive day range into the half-open interval the
// store queries use.
func window(start, end string) (time.Time, time.Time, error) {
	from, to, err := ledger.ValidateDateRange(start, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to.AddDate(0, 0, 1), nil
}

func (s *Service) BestProfession(ctx context.Context, start, end string) (*store.ProfessionEarnings, error) {
	from, to, err := window(start, end)
	if err != nil {
		return nil, err
	}
	out, err := s.store.BestProfession(ctx, from, to)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoPaidJobs
	}
	return out, err
}

func (s *Service) BestClients(ctx context.Context, start, end, limit string) (*BestClientsResponse, error) {
	from, to, err := window(start, end)
	if err != nil {
		return nil, err
	}
	n, err := ledger.ValidateLimit(limit)
	if err != nil {
		return nil, err
	}
	items, err := s.store.BestClients(ctx, from, to, n)
	if err != nil {
		return nil, err
	}
	return &BestClientsResponse{Items: items, Limit: n}, nil
}
