package ledger

import (
	"strconv"
	"strings"
	"time"

	"marketplace-ledger/internal/store"

	"github.com/shopspring/decimal"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 2
)

// Balances are stored with cent precision.
const moneyScale = 2

var depositCapRatio = decimal.RequireFromString("0.25")

// ValidatePayment checks the client can settle job. A paid job is reported
// before an unaffordable one.
func ValidatePayment(client store.Account, job store.Job) error {
	if job.Paid {
		return ErrAlreadyPaid
	}
	if client.Balance.LessThan(job.Price) {
		return ErrInsufficientBalance
	}
	return nil
}

// DepositCap is the most a client owing totalAmountDue may deposit.
func DepositCap(totalAmountDue decimal.Decimal) decimal.Decimal {
	return totalAmountDue.Mul(depositCapRatio)
}

// ValidateDeposit checks, in order: zero, negative, sub-cent precision, no
// dues, cap.
func ValidateDeposit(totalAmountDue, amount decimal.Decimal) error {
	switch {
	case amount.IsZero():
		return ErrZeroAmount
	case amount.IsNegative():
		return ErrNegativeAmount
	case !amount.Equal(amount.Round(moneyScale)):
		return ErrInvalidPrecision
	case !totalAmountDue.IsPositive():
		return ErrNoUnpaidJobs
	}
	if limit := DepositCap(totalAmountDue); amount.GreaterThan(limit) {
		return capExceeded(limit)
	}
	return nil
}

// ValidateDateRange parses an inclusive YYYY-MM-DD range in UTC.
func ValidateDateRange(start, end string) (time.Time, time.Time, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, invalidInput(ErrInvalidDateRange, "Start and end dates are required")
	}
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, invalidInput(ErrInvalidDateRange, "Start date must be in YYYY-MM-DD format")
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, invalidInput(ErrInvalidDateRange, "End date must be in YYYY-MM-DD format")
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, invalidInput(ErrInvalidDateRange, "Start date must not be after end date")
	}
	return from, to, nil
}

// ValidateLimit returns the default when raw is empty.
func ValidateLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, ErrInvalidLimit
	}
	return n, nil
}

// checkBalance rejects a balance the store cannot hold.
func checkBalance(balance decimal.Decimal) error {
	if balance.GreaterThan(store.MaxBalance) {
		return ErrBalanceOutOfRange
	}
	return nil
}
