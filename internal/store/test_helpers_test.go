package store_test

import (
	"context"
	"testing"
	"time"

	"marketplace-ledger/internal/store"
	"marketplace-ledger/internal/testutil"

	"github.com/shopspring/decimal"
)

func openStore(t *testing.T) (*store.Store, context.Context, func()) {
	t.Helper()
	st, cleanup := testutil.OpenTestStore(t, 300*time.Millisecond)
	return st, context.Background(), cleanup
}

func mustCreateAccount(t *testing.T, st *store.Store, ctx context.Context, role store.Role, profession, balance string) string {
	t.Helper()
	id, err := st.CreateAccount(ctx, store.Account{
		FirstName:  "First",
		LastName:   "Last",
		Profession: profession,
		Role:       role,
		Balance:    decimal.RequireFromString(balance),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return id
}

func mustCreateContract(t *testing.T, st *store.Store, ctx context.Context, clientID, contractorID string, status store.ContractStatus) string {
	t.Helper()
	id, err := st.CreateContract(ctx, store.Contract{ClientID: clientID, ContractorID: contractorID, Status: status})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	return id
}

func mustCreateJob(t *testing.T, st *store.Store, ctx context.Context, contractID, price string, paidAt *time.Time) string {
	t.Helper()
	id, err := st.CreateJob(ctx, store.Job{
		ContractID:  contractID,
		Description: "work",
		Price:       decimal.RequireFromString(price),
		Paid:        paidAt != nil,
		PaymentDate: paidAt,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return id
}
