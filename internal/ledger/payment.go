package ledger

import (
	"context"
	"errors"
	"time"

	"marketplace-ledger/internal/store"

	"github.com/rs/zerolog/log"
)

// PayForJob debits the job's price from payerID and credits the contract's
// contractor, marking the job paid. Rows are locked job, contract, client,
// contractor; concurrent payments must keep that order to stay deadlock free.
func (l *Ledger) PayForJob(ctx context.Context, jobID, payerID string) (receipt *PaymentReceipt, err error) {
	started := time.Now()
	defer func() {
		l.metrics.observe(opPayment, started, err)
		if err != nil {
			logRejected(opPayment, err)
		}
	}()

	err = l.st.InScope(ctx, func(ctx context.Context, sc store.Scope) error {
		job, contract, err := sc.LockJobWithContract(ctx, jobID)
		if err != nil {
			return fromStore(err, ErrJobNotFound)
		}
		if contract.ClientID != payerID {
			return ErrForbidden
		}
		if contract.Status != store.ContractInProgress {
			return ErrContractNotPayable
		}

		client, err := sc.LockAccount(ctx, payerID)
		if err != nil {
			return fromStore(err, ErrClientNotFound)
		}
		if client.Role != store.RoleClient {
			return ErrClientNotFound
		}
		contractor, err := sc.LockAccount(ctx, contract.ContractorID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return fromStore(err, nil)
		}
		// A contract whose counterparty is not a contractor cannot move money:
		// with client == contractor the two writes below would collapse.
		if contractor.Role != store.RoleContractor || contractor.ID == client.ID {
			return ErrContractNotPayable
		}

		if err := ValidatePayment(client, job); err != nil {
			return err
		}

		paidAt := l.now()
		client.Balance = client.Balance.Sub(job.Price)
		contractor.Balance = contractor.Balance.Add(job.Price)
		if err := checkBalance(contractor.Balance); err != nil {
			return err
		}
		job.Paid = true
		job.PaymentDate = &paidAt

		if err := sc.SaveAccount(ctx, client); err != nil {
			return fromStore(err, nil)
		}
		if err := sc.SaveAccount(ctx, contractor); err != nil {
			return fromStore(err, nil)
		}
		if err := sc.SaveJob(ctx, job); err != nil {
			return fromStore(err, nil)
		}
		receipt = &PaymentReceipt{
			JobID:             job.ID,
			Amount:            job.Price,
			ClientBalance:     client.Balance,
			ContractorBalance: contractor.Balance,
			PaidAt:            paidAt,
		}
		return nil
	})
	if err != nil {
		// Commit and begin failures arrive here unmapped.
		return nil, fromStore(err, nil)
	}
	log.Info().
		Str("job_id", receipt.JobID).
		Str("client_id", payerID).
		Str("amount", receipt.Amount.String()).
		Msg("job_paid")
	return receipt, nil
}
