// Package ledger moves money between accounts. Every payment and deposit
// runs in its own store scope, so a failure at any step leaves balances and
// paid flags exactly as they were.
package ledger

import (
	"context"
	"time"

	"marketplace-ledger/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	opPayment = "payment"
	opDeposit = "deposit"
)

// Coordinator opens scopes. Both the Postgres store and memstore satisfy it.
type Coordinator interface {
	InScope(ctx context.Context, fn func(context.Context, store.Scope) error) error
}

type Ledger struct {
	st      Coordinator
	metrics *Metrics
	now     func() time.Time
}

func New(st Coordinator, m *Metrics) *Ledger {
	return &Ledger{
		st:      st,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type PaymentReceipt struct {
	JobID             string          `json:"job_id"`
	Amount            decimal.Decimal `json:"amount"`
	ClientBalance     decimal.Decimal `json:"client_balance"`
	ContractorBalance decimal.Decimal `json:"contractor_balance"`
	PaidAt            time.Time       `json:"paid_at"`
}

type DepositReceipt struct {
	ClientID string          `json:"client_id"`
	Amount   decimal.Decimal `json:"amount"`
	Balance  decimal.Decimal `json:"balance"`
	Message  string          `json:"message"`
}

const depositSuccessMessage = "Deposit Successful."

func logRejected(op string, err error) {
	if e, ok := asError(err); ok {
		log.Warn().Str("operation", op).Str("code", e.Code).Str("kind", string(e.Kind)).Msg("ledger_rejected")
		return
	}
	log.Error().Err(err).Str("operation", op).Msg("ledger_failed")
}
