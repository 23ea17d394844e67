package ledger

import (
	"context"
	"time"

	"marketplace-ledger/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Deposit credits amount to a client's balance. The amount may not exceed a
// quarter of what the client still owes on in_progress contracts, summed
// under the same scope so a concurrent payment cannot shift the cap.
func (l *Ledger) Deposit(ctx context.Context, clientID string, amount decimal.Decimal) (receipt *DepositReceipt, err error) {
	started := time.Now()
	defer func() {
		l.metrics.observe(opDeposit, started, err)
		if err != nil {
			logRejected(opDeposit, err)
		}
	}()

	err = l.st.InScope(ctx, func(ctx context.Context, sc store.Scope) error {
		account, err := sc.LockAccount(ctx, clientID)
		if err != nil {
			return fromStore(err, ErrAccountNotFound)
		}
		if account.Role != store.RoleClient {
			return ErrNotAClient
		}
		due, err := sc.SumUnpaidDue(ctx, clientID)
		if err != nil {
			return fromStore(err, nil)
		}
		if err := ValidateDeposit(due, amount); err != nil {
			return err
		}
		account.Balance = account.Balance.Add(amount)
		if err := checkBalance(account.Balance); err != nil {
			return err
		}
		if err := sc.SaveAccount(ctx, account); err != nil {
			return fromStore(err, nil)
		}
		receipt = &DepositReceipt{
			ClientID: account.ID,
			Amount:   amount,
			Balance:  account.Balance,
			Message:  depositSuccessMessage,
		}
		return nil
	})
	if err != nil {
		return nil, fromStore(err, nil)
	}
	log.Info().
		Str("client_id", clientID).
		Str("amount", amount.String()).
		Str("balance", receipt.Balance.String()).
		Msg("deposit_credited")
	return receipt, nil
}
