package ledger

import (
	"errors"
	"fmt"

	"marketplace-ledger/internal/store"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindConflict          Kind = "conflict"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindInvalidAmount     Kind = "invalid_amount"
	KindNoObligation      Kind = "no_obligation"
	KindLockConflict      Kind = "lock_conflict"
	KindInvalidInput      Kind = "invalid_input"
)

// Error is a failure callers can act on: a stable Kind and Code plus a
// message safe to show to users. Cap is set only for deposit_cap_exceeded.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cap     *decimal.Decimal
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches any *Error with the same Code, so a cap failure carrying its
// own value still satisfies errors.Is(err, ErrDepositCapExceeded).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrJobNotFound      = newError(KindNotFound, "job_not_found", "Job not found")
	ErrContractNotFound = newError(KindNotFound, "contract_not_found", "Contract not found for the job")
	ErrClientNotFound   = newError(KindNotFound, "client_not_found", "Client not found")
	ErrAccountNotFound  = newError(KindNotFound, "account_not_found", "Profile not found")
	ErrNotAClient       = newError(KindNotFound, "not_a_client", "Client not found")

	ErrForbidden = newError(KindForbidden, "forbidden", "Job does not belong to the client")

	ErrContractNotPayable = newError(KindConflict, "contract_not_payable", "Job payments only for contracts in_progress")
	ErrAlreadyPaid        = newError(KindConflict, "already_paid", "Job already paid")

	ErrInsufficientBalance = newError(KindInsufficientFunds, "insufficient_balance", "Insufficient balance")

	ErrZeroAmount         = newError(KindInvalidAmount, "zero_amount", "Amount can not be 0")
	ErrNegativeAmount     = newError(KindInvalidAmount, "negative_amount", "Amount can not be negative")
	ErrInvalidPrecision   = newError(KindInvalidAmount, "invalid_precision", "Amount can not have more than 2 decimal places")
	ErrBalanceOutOfRange  = newError(KindInvalidAmount, "balance_out_of_range", "Resulting balance exceeds the supported range")
	ErrDepositCapExceeded = newError(KindInvalidAmount, "deposit_cap_exceeded", "Cannot deposit more than 25% of total jobs due")

	ErrNoUnpaidJobs = newError(KindNoObligation, "no_unpaid_jobs", "No unpaid jobs available. Cannot deposit money.")

	ErrLockConflict = newError(KindLockConflict, "lock_conflict", "Ledger is busy, retry the request")

	ErrInvalidDateRange = newError(KindInvalidInput, "invalid_date_range", "Invalid date range")
	ErrInvalidLimit     = newError(KindInvalidInput, "invalid_limit", "Limit must be a positive integer")
)

func capExceeded(limit decimal.Decimal) *Error {
	c := limit
	return &Error{
		Kind:    KindInvalidAmount,
		Code:    ErrDepositCapExceeded.Code,
		Message: fmt.Sprintf("Cannot deposit more than 25%% of total jobs due: %s", limit.StringFixed(2)),
		Cap:     &c,
	}
}

func invalidInput(base *Error, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Code: base.Code, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or "" for
// internal failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether a caller may safely retry the same input.
func IsRetryable(err error) bool {
	return KindOf(err) == KindLockConflict
}

// fromStore translates store failures into the taxonomy. notFound is used
// for a bare store.ErrNotFound whose entity the caller knows better.
func fromStore(err error, notFound *Error) error {
	switch {
	case err == nil:
		return nil
	case KindOf(err) != "":
		return err
	case errors.Is(err, store.ErrLockConflict):
		return ErrLockConflict
	case errors.Is(err, store.ErrAmountOutOfRange):
		return ErrBalanceOutOfRange
	case errors.Is(err, store.ErrJobNotFound):
		return ErrJobNotFound
	case errors.Is(err, store.ErrContractNotFound):
		return ErrContractNotFound
	case errors.Is(err, store.ErrNotFound):
		if notFound != nil {
			return notFound
		}
		return ErrAccountNotFound
	default:
		return fmt.Errorf("ledger store: %w", err)
	}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
