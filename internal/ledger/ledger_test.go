package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace-ledger/internal/store"
	"marketplace-ledger/internal/store/memstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	mem        *memstore.Store
	ledger     *Ledger
	client     string
	contractor string
	contract   string
	job        string
}

// newFixture seeds one client, one contractor, an in_progress contract and a
// single unpaid job priced at price.
func newFixture(t *testing.T, clientBalance, price string) *fixture {
	t.Helper()
	mem := memstore.New(200 * time.Millisecond)
	f := &fixture{mem: mem, ledger: New(mem, NewMetrics(prometheus.NewRegistry()))}
	f.client = mem.PutAccount(store.Account{FirstName: "Harry", LastName: "Potter", Role: store.RoleClient, Balance: dec(clientBalance)})
	f.contractor = mem.PutAccount(store.Account{FirstName: "Linus", LastName: "Torvalds", Profession: "Programmer", Role: store.RoleContractor, Balance: dec("64")})
	f.contract = mem.PutContract(store.Contract{ClientID: f.client, ContractorID: f.contractor, Status: store.ContractInProgress})
	f.job = mem.PutJob(store.Job{ContractID: f.contract, Description: "work", Price: dec(price)})
	return f
}

func (f *fixture) balance(t *testing.T, id string) string {
	t.Helper()
	a, err := f.mem.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return a.Balance.String()
}

func (f *fixture) snapshot(t *testing.T) [3]string {
	t.Helper()
	j, err := f.mem.GetJob(context.Background(), f.job)
	require.NoError(t, err)
	paid := "unpaid"
	if j.Paid {
		paid = "paid"
	}
	return [3]string{f.balance(t, f.client), f.balance(t, f.contractor), paid}
}

func TestPayForJobTransfersPrice(t *testing.T) {
	f := newFixture(t, "100", "50")
	fixed := time.Date(2020, 8, 15, 19, 11, 26, 0, time.UTC)
	f.ledger.now = func() time.Time { return fixed }

	receipt, err := f.ledger.PayForJob(context.Background(), f.job, f.client)
	require.NoError(t, err)
	assert.Equal(t, "50", receipt.ClientBalance.String())
	assert.Equal(t, "114", receipt.ContractorBalance.String())
	assert.Equal(t, fixed, receipt.PaidAt)

	assert.Equal(t, "50", f.balance(t, f.client))
	assert.Equal(t, "114", f.balance(t, f.contractor))
	j, err := f.mem.GetJob(context.Background(), f.job)
	require.NoError(t, err)
	assert.True(t, j.Paid)
	require.NotNil(t, j.PaymentDate)
	assert.Equal(t, fixed, *j.PaymentDate)
}

func TestPayForJobConservesMoney(t *testing.T) {
	for _, price := range []string{"0", "0.01", "49.99", "100"} {
		t.Run(price, func(t *testing.T) {
			f := newFixture(t, "100", price)
			before := dec(f.balance(t, f.client)).Add(dec(f.balance(t, f.contractor)))
			_, err := f.ledger.PayForJob(context.Background(), f.job, f.client)
			require.NoError(t, err)
			after := dec(f.balance(t, f.client)).Add(dec(f.balance(t, f.contractor)))
			assert.True(t, before.Equal(after), "before %s after %s", before, after)
			assert.False(t, dec(f.balance(t, f.client)).IsNegative())
		})
	}
}

func TestPayForJobInsufficientBalance(t *testing.T) {
	f := newFixture(t, "20", "50")
	before := f.snapshot(t)
	_, err := f.ledger.PayForJob(context.Background(), f.job, f.client)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, KindInsufficientFunds, KindOf(err))
	assert.Equal(t, before, f.snapshot(t))
}

func TestPayForJobTwiceConflicts(t *testing.T) {
	f := newFixture(t, "100", "50")
	_, err := f.ledger.PayForJob(context.Background(), f.job, f.client)
	require.NoError(t, err)
	before := f.snapshot(t)

	_, err = f.ledger.PayForJob(context.Background(), f.job, f.client)
	require.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, KindConflict, KindOf(err))
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Job already paid", e.Message)
	assert.Equal(t, before, f.snapshot(t))
}

func TestPayForJobFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown job", func(t *testing.T) {
		f := newFixture(t, "100", "50")
		_, err := f.ledger.PayForJob(ctx, store.NewID(), f.client)
		require.ErrorIs(t, err, ErrJobNotFound)
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("job without contract", func(t *testing.T) {
		f := newFixture(t, "100", "50")
		orphan := f.mem.PutJob(store.Job{Price: dec("5")})
		_, err := f.ledger.PayForJob(ctx, orphan, f.client)
		require.ErrorIs(t, err, ErrContractNotFound)
	})

	t.Run("someone else's job", func(t *testing.T) {
		f := newFixture(t, "100", "50")
		other := f.mem.PutAccount(store.Account{Role: store.RoleClient, Balance: dec("1000")})
		before := f.snapshot(t)
		_, err := f.ledger.PayForJob(ctx, f.job, other)
		require.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, KindForbidden, KindOf(err))
		assert.Equal(t, before, f.snapshot(t))
		assert.Equal(t, "1000", f.balance(t, other))
	})

	t.Run("contractor cannot pay", func(t *testing.T) {
		f := newFixture(t, "100", "50")
		_, err := f.ledger.PayForJob(ctx, f.job, f.contractor)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("contract not in progress", func(t *testing.T) {
		f := newFixture(t, "100", "50")
		for _, status := range []store.ContractStatus{store.ContractNew, store.ContractTerminated} {
			c := f.mem.PutContract(store.Contract{ClientID: f.client, ContractorID: f.contractor, Status: status})
			j := f.mem.PutJob(store.Job{ContractID: c, Price: dec("10")})
			_, err := f.ledger.PayForJob(ctx, j, f.client)
			require.ErrorIs(t, err, ErrContractNotPayable, string(status))
		}
		assert.Equal(t, "100", f.balance(t, f.client))
	})

	t.Run("owner profile missing", func(t *testing.T) {
		f := newFixture(t, "100", "50")
		ghost := store.NewID()
		c := f.mem.PutContract(store.Contract{ClientID: ghost, ContractorID: f.contractor, Status: store.ContractInProgress})
		j := f.mem.PutJob(store.Job{ContractID: c, Price: dec("10")})
		_, err := f.ledger.PayForJob(ctx, j, ghost)
		require.ErrorIs(t, err, ErrClientNotFound)
	})
}

func TestDepositCap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "0", "120")
	f.mem.PutJob(store.Job{ContractID: f.contract, Price: dec("80")})

	_, err := f.ledger.Deposit(ctx, f.client, dec("60"))
	require.ErrorIs(t, err, ErrDepositCapExceeded)
	assert.Equal(t, KindInvalidAmount, KindOf(err))
	var e *Error
	require.ErrorAs(t, err, &e)
	require.NotNil(t, e.Cap)
	assert.True(t, e.Cap.Equal(dec("50")))
	assert.Equal(t, "0", f.balance(t, f.client))

	receipt, err := f.ledger.Deposit(ctx, f.client, dec("50"))
	require.NoError(t, err)
	assert.Equal(t, "Deposit Successful.", receipt.Message)
	assert.Equal(t, "50", receipt.Balance.String())
	assert.Equal(t, "50", f.balance(t, f.client))
	assert.Equal(t, "64", f.balance(t, f.contractor))
}

func TestDepositIgnoresPaidAndInactiveJobs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "0", "40")
	terminated := f.mem.PutContract(store.Contract{ClientID: f.client, ContractorID: f.contractor, Status: store.ContractTerminated})
	f.mem.PutJob(store.Job{ContractID: terminated, Price: dec("1000")})
	f.mem.PutJob(store.Job{ContractID: f.contract, Price: dec("1000"), Paid: true})

	_, err := f.ledger.Deposit(ctx, f.client, dec("10.01"))
	require.ErrorIs(t, err, ErrDepositCapExceeded)
	_, err = f.ledger.Deposit(ctx, f.client, dec("10"))
	require.NoError(t, err)
}

func TestDepositFailures(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		target func(f *fixture) string
		amount string
		want   error
		kind   Kind
	}{
		{name: "zero", target: func(f *fixture) string { return f.client }, amount: "0", want: ErrZeroAmount, kind: KindInvalidAmount},
		{name: "negative", target: func(f *fixture) string { return f.client }, amount: "-1", want: ErrNegativeAmount, kind: KindInvalidAmount},
		{name: "sub-cent", target: func(f *fixture) string { return f.client }, amount: "0.005", want: ErrInvalidPrecision, kind: KindInvalidAmount},
		{name: "unknown account", target: func(*fixture) string { return store.NewID() }, amount: "1", want: ErrAccountNotFound, kind: KindNotFound},
		{name: "contractor", target: func(f *fixture) string { return f.contractor }, amount: "1", want: ErrNotAClient, kind: KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "10", "100")
			_, err := f.ledger.Deposit(ctx, tt.target(f), dec(tt.amount))
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, "10", f.balance(t, f.client))
			assert.Equal(t, "64", f.balance(t, f.contractor))
		})
	}
}

func TestDepositWithoutDues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "100", "50")
	_, err := f.ledger.PayForJob(ctx, f.job, f.client)
	require.NoError(t, err)

	_, err = f.ledger.Deposit(ctx, f.client, dec("1"))
	require.ErrorIs(t, err, ErrNoUnpaidJobs)
	assert.Equal(t, KindNoObligation, KindOf(err))
	assert.Equal(t, "50", f.balance(t, f.client))
}

func TestDepositBeyondMaxBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "9999999999.99", "100")

	_, err := f.ledger.Deposit(ctx, f.client, dec("1"))
	require.ErrorIs(t, err, ErrBalanceOutOfRange)
	assert.Equal(t, KindInvalidAmount, KindOf(err))
	assert.Equal(t, "9999999999.99", f.balance(t, f.client))
}

func TestPayForJobBeyondMaxBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "100", "50")
	rich := f.mem.PutAccount(store.Account{FirstName: "Rich", LastName: "Contractor", Role: store.RoleContractor, Balance: dec("9999999999.99")})
	contract := f.mem.PutContract(store.Contract{ClientID: f.client, ContractorID: rich, Status: store.ContractInProgress})
	job := f.mem.PutJob(store.Job{ContractID: contract, Price: dec("1")})

	_, err := f.ledger.PayForJob(ctx, job, f.client)
	require.ErrorIs(t, err, ErrBalanceOutOfRange)
	assert.Equal(t, "100", f.balance(t, f.client))
	assert.Equal(t, "9999999999.99", f.balance(t, rich))
}

// failingCoordinator lets the scope body run, then fails as a commit would.
type failingCoordinator struct {
	inner Coordinator
	err   error
}

func (c failingCoordinator) InScope(ctx context.Context, fn func(context.Context, store.Scope) error) error {
	return c.inner.InScope(ctx, func(ctx context.Context, sc store.Scope) error {
		if err := fn(ctx, sc); err != nil {
			return err
		}
		return c.err
	})
}

func TestFailureAfterMutationRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "100", "50")
	f.mem.PutJob(store.Job{ContractID: f.contract, Price: dec("400")})
	before := f.snapshot(t)

	l := New(failingCoordinator{inner: f.mem, err: store.ErrLockConflict}, nil)
	_, err := l.PayForJob(ctx, f.job, f.client)
	require.ErrorIs(t, err, ErrLockConflict)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, before, f.snapshot(t))

	_, err = l.Deposit(ctx, f.client, dec("10"))
	require.ErrorIs(t, err, ErrLockConflict)
	assert.Equal(t, before, f.snapshot(t))

	l = New(failingCoordinator{inner: f.mem, err: errors.New("connection reset")}, nil)
	_, err = l.PayForJob(ctx, f.job, f.client)
	require.Error(t, err)
	assert.Equal(t, Kind(""), KindOf(err))
	assert.Equal(t, before, f.snapshot(t))
}

func TestConcurrentPaymentsOfSameJob(t *testing.T) {
	f := newFixture(t, "1000", "50")
	const workers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.ledger.PayForJob(context.Background(), f.job, f.client)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			others = append(others, err)
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, 1, successes)
	for _, err := range others {
		kind := KindOf(err)
		assert.Contains(t, []Kind{KindConflict, KindLockConflict}, kind, "unexpected failure %v", err)
	}
	assert.Equal(t, "950", f.balance(t, f.client))
	assert.Equal(t, "114", f.balance(t, f.contractor))
}

func TestConcurrentPaymentsAcrossJobsNeverOverdraw(t *testing.T) {
	f := newFixture(t, "100", "30")
	jobs := []string{f.job}
	for i := 0; i < 5; i++ {
		jobs = append(jobs, f.mem.PutJob(store.Job{ContractID: f.contract, Price: dec("30")}))
	}

	var wg sync.WaitGroup
	for _, id := range jobs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = f.ledger.PayForJob(context.Background(), id, f.client)
		}(id)
	}
	wg.Wait()

	client := dec(f.balance(t, f.client))
	contractor := dec(f.balance(t, f.contractor))
	assert.False(t, client.IsNegative())
	assert.True(t, client.Add(contractor).Equal(dec("164")), "client %s contractor %s", client, contractor)
}

func TestMetricsCountResults(t *testing.T) {
	f := newFixture(t, "100", "50")
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	f.ledger.metrics = m

	_, err := f.ledger.PayForJob(context.Background(), f.job, f.client)
	require.NoError(t, err)
	_, _ = f.ledger.PayForJob(context.Background(), f.job, f.client)
	_, _ = f.ledger.Deposit(context.Background(), f.client, dec("0"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.payments.WithLabelValues("already_paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deposits.WithLabelValues("zero_amount")))
}
