// Package catalog serves read-only views of contracts and jobs to the
// profile making the request.
package catalog

import (
	"context"
	"errors"

	"marketplace-ledger/internal/store"
)

var ErrContractNotFound = errors.New("contract_not_found")

// Reader is the part of the store catalog queries need.
type Reader interface {
	GetContractForProfile(ctx context.Context, contractID, profileID string) (*store.Contract, error)
	ListActiveContracts(ctx context.Context, profileID string) ([]store.Contract, error)
	ListUnpaidJobs(ctx context.Context, profileID string) ([]store.Job, error)
}

type Service struct {
	store Reader
}

func NewService(st Reader) *Service {
	return &Service{store: st}
}

// Contract returns the contract if profileID is a party to it. Contracts of
// other profiles are indistinguishable from missing ones.
func (s *Service) Contract(ctx context.Context, contractID, profileID string) (*store.Contract, error) {
	if !store.ValidID(contractID) {
		return nil, ErrContractNotFound
	}
	c, err := s.store.GetContractForProfile(ctx, contractID, profileID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrContractNotFound
	}
	return c, err
}

func (s *Service) ActiveContracts(ctx context.Context, profileID string) (*ContractsResponse, error) {
	items, err := s.store.ListActiveContracts(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return &ContractsResponse{Items: items}, nil
}

func (s *Service) UnpaidJobs(ctx context.Context, profileID string) (*JobsResponse, error) {
	items, err := s.store.ListUnpaidJobs(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return &JobsResponse{Items: items}, nil
}
