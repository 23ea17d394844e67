// Package memstore is an in-process ledger store. Rows are guarded by leases
// taken in the caller's order and held until the scope ends, so it honours
// the same Scope contract as the Postgres store without a database.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketplace-ledger/internal/store"

	"github.com/shopspring/decimal"
)

var errUnlockedWrite = errors.New("memstore: write to a row the scope has not locked")

type Store struct {
	lockTimeout time.Duration

	mu        sync.Mutex
	accounts  map[string]store.Account
	contracts map[string]store.Contract
	jobs      map[string]store.Job
	leases    map[string]chan struct{}
}

// New returns an empty store. A positive lockTimeout bounds every lease wait.
func New(lockTimeout time.Duration) *Store {
	return &Store{
		lockTimeout: lockTimeout,
		accounts:    map[string]store.Account{},
		contracts:   map[string]store.Contract{},
		jobs:        map[string]store.Job{},
		leases:      map[string]chan struct{}{},
	}
}

func (m *Store) PutAccount(a store.Account) string {
	if a.ID == "" {
		a.ID = store.NewID()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	m.mu.Lock()
	m.accounts[a.ID] = a
	m.mu.Unlock()
	return a.ID
}

func (m *Store) PutContract(c store.Contract) string {
	if c.ID == "" {
		c.ID = store.NewID()
	}
	if c.Status == "" {
		c.Status = store.ContractNew
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	m.mu.Lock()
	m.contracts[c.ID] = c
	m.mu.Unlock()
	return c.ID
}

func (m *Store) PutJob(j store.Job) string {
	if j.ID == "" {
		j.ID = store.NewID()
	}
	now := time.Now().UTC()
	j.CreatedAt, j.UpdatedAt = now, now
	m.mu.Lock()
	m.jobs[j.ID] = j
	m.mu.Unlock()
	return j.ID
}

// GetAccount returns the last committed state of an account.
func (m *Store) GetAccount(_ context.Context, id string) (*store.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return &a, nil
}

// GetJob returns the last committed state of a job.
func (m *Store) GetJob(_ context.Context, id string) (*store.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return &j, nil
}

func (m *Store) BeginScope(_ context.Context) (*Scope, error) {
	return &Scope{
		m:        m,
		held:     map[string]chan struct{}{},
		accounts: map[string]store.Account{},
		jobs:     map[string]store.Job{},
	}, nil
}

// InScope mirrors store.Store.InScope: commit on success, rollback on any
// error or panic.
func (m *Store) InScope(ctx context.Context, fn func(context.Context, store.Scope) error) (err error) {
	sc, err := m.BeginScope(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sc.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = sc.Rollback(ctx)
		}
	}()
	if err = fn(ctx, sc); err != nil {
		return err
	}
	return sc.Commit(ctx)
}

func (m *Store) lease(key string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.leases[key]
	if !ok {
		ch = make(chan struct{}, 1)
		m.leases[key] = ch
	}
	return ch
}

// Scope holds leases and buffered writes until Commit or Rollback.
type Scope struct {
	m    *Store
	held map[string]chan struct{}

	accounts map[string]store.Account
	jobs     map[string]store.Job
	done     bool
}

var _ store.Scope = (*Scope)(nil)

func accountKey(id string) string  { return "profiles/" + id }
func contractKey(id string) string { return "contracts/" + id }
func jobKey(id string) string      { return "jobs/" + id }

func (sc *Scope) lock(ctx context.Context, key string) error {
	if sc.done {
		return errors.New("memstore: scope already finished")
	}
	if _, ok := sc.held[key]; ok {
		return nil
	}
	ch := sc.m.lease(key)
	var timeout <-chan time.Time
	if sc.m.lockTimeout > 0 {
		timer := time.NewTimer(sc.m.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case ch <- struct{}{}:
		sc.held[key] = ch
		return nil
	case <-timeout:
		return fmt.Errorf("%w: waiting for %s", store.ErrLockConflict, key)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (sc *Scope) LockAccount(ctx context.Context, id string) (store.Account, error) {
	if err := sc.lock(ctx, accountKey(id)); err != nil {
		return store.Account{}, err
	}
	if a, ok := sc.accounts[id]; ok {
		return a, nil
	}
	sc.m.mu.Lock()
	defer sc.m.mu.Unlock()
	a, ok := sc.m.accounts[id]
	if !ok {
		return store.Account{}, store.ErrAccountNotFound
	}
	return a, nil
}

func (sc *Scope) LockJob(ctx context.Context, id string) (store.Job, error) {
	if err := sc.lock(ctx, jobKey(id)); err != nil {
		return store.Job{}, err
	}
	return sc.readJob(id)
}

func (sc *Scope) readJob(id string) (store.Job, error) {
	if j, ok := sc.jobs[id]; ok {
		return j, nil
	}
	sc.m.mu.Lock()
	defer sc.m.mu.Unlock()
	j, ok := sc.m.jobs[id]
	if !ok {
		return store.Job{}, store.ErrJobNotFound
	}
	return j, nil
}

func (sc *Scope) LockContract(ctx context.Context, id string) (store.Contract, error) {
	if err := sc.lock(ctx, contractKey(id)); err != nil {
		return store.Contract{}, err
	}
	sc.m.mu.Lock()
	defer sc.m.mu.Unlock()
	c, ok := sc.m.contracts[id]
	if !ok {
		return store.Contract{}, store.ErrContractNotFound
	}
	return c, nil
}

func (sc *Scope) LockJobWithContract(ctx context.Context, jobID string) (store.Job, store.Contract, error) {
	job, err := sc.LockJob(ctx, jobID)
	if err != nil {
		return store.Job{}, store.Contract{}, err
	}
	if job.ContractID == "" {
		return store.Job{}, store.Contract{}, store.ErrContractNotFound
	}
	contract, err := sc.LockContract(ctx, job.ContractID)
	if err != nil {
		return store.Job{}, store.Contract{}, err
	}
	return job, contract, nil
}

// SumUnpaidDue leases every candidate job in id order, then re-reads it so
// a payment that committed while we waited is excluded.
func (sc *Scope) SumUnpaidDue(ctx context.Context, clientID string) (decimal.Decimal, error) {
	candidates := sc.m.unpaidJobIDs(clientID)
	total := decimal.Zero
	for _, id := range candidates {
		if err := sc.lock(ctx, jobKey(id)); err != nil {
			return decimal.Zero, err
		}
		j, err := sc.readJob(id)
		if err != nil {
			return decimal.Zero, err
		}
		if !j.Paid && sc.m.contractDue(j.ContractID, clientID) {
			total = total.Add(j.Price)
		}
	}
	return total, nil
}

func (m *Store) unpaidJobIDs(clientID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []string{}
	for id, j := range m.jobs {
		if j.Paid {
			continue
		}
		c, ok := m.contracts[j.ContractID]
		if ok && c.ClientID == clientID && c.Status == store.ContractInProgress {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (m *Store) contractDue(contractID, clientID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[contractID]
	return ok && c.ClientID == clientID && c.Status == store.ContractInProgress
}

func (sc *Scope) SaveAccount(_ context.Context, a store.Account) error {
	if _, ok := sc.held[accountKey(a.ID)]; !ok {
		return errUnlockedWrite
	}
	sc.accounts[a.ID] = a
	return nil
}

func (sc *Scope) SaveJob(_ context.Context, j store.Job) error {
	if _, ok := sc.held[jobKey(j.ID)]; !ok {
		return errUnlockedWrite
	}
	sc.jobs[j.ID] = j
	return nil
}

func (sc *Scope) Commit(_ context.Context) error {
	if sc.done {
		return errors.New("memstore: scope already finished")
	}
	now := time.Now().UTC()
	sc.m.mu.Lock()
	for id, a := range sc.accounts {
		a.UpdatedAt = now
		sc.m.accounts[id] = a
	}
	for id, j := range sc.jobs {
		j.UpdatedAt = now
		sc.m.jobs[id] = j
	}
	sc.m.mu.Unlock()
	sc.release()
	return nil
}

// Rollback drops buffered writes and releases every lease. Safe to call
// after Commit.
func (sc *Scope) Rollback(_ context.Context) error {
	if sc.done {
		return nil
	}
	sc.release()
	return nil
}

func (sc *Scope) release() {
	sc.done = true
	sc.accounts = map[string]store.Account{}
	sc.jobs = map[string]store.Job{}
	for key, ch := range sc.held {
		<-ch
		delete(sc.held, key)
	}
}
