// Package memory is an in-process Store used for development, demos and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"moneypilot/internal/core"
	"moneypilot/internal/ports"
)

// SeedFile is the optional snapshot loaded by NewFromDir.
const SeedFile = "seed.json"

var _ ports.Store = (*Store)(nil)

type Store struct {
	mu          sync.Mutex
	txs         []core.Transaction
	budgets     []core.Budget
	profile     *core.CarProfile
	fuel        []core.FuelLog
	maintenance []core.MaintenanceLog
	expenses    []core.AutoExpense
	reminders   []core.Reminder
}

// New returns a store holding a copy of seed.
func New(seed core.Snapshot) *Store {
	s := &Store{}
	s.load(seed)
	return s
}

// NewFromDir seeds the store from <dir>/seed.json. A missing file yields an
// empty store; a malformed one is an error.
func NewFromDir(dir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(dir, SeedFile))
	if os.IsNotExist(err) {
		return New(core.Snapshot{}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed core.Snapshot
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", SeedFile, err)
	}
	return New(seed), nil
}

func (s *Store) load(seed core.Snapshot) {
	s.txs = slices.Clone(seed.Transactions)
	s.budgets = slices.Clone(seed.Budgets)
	if seed.CarProfile != nil {
		p := *seed.CarProfile
		s.profile = &p
	}
	s.fuel = slices.Clone(seed.FuelLogs)
	s.maintenance = slices.Clone(seed.MaintenanceLogs)
	s.expenses = slices.Clone(seed.AutoExpenses)
	s.reminders = slices.Clone(seed.Reminders)
}

func (s *Store) Snapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := core.Snapshot{
		Transactions:    nonNil(s.txs),
		Budgets:         nonNil(s.budgets),
		FuelLogs:        nonNil(s.fuel),
		MaintenanceLogs: nonNil(s.maintenance),
		AutoExpenses:    nonNil(s.expenses),
		Reminders:       nonNil(s.reminders),
	}
	if s.profile != nil {
		p := *s.profile
		snap.CarProfile = &p
	}
	return snap, nil
}

func (s *Store) AddTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.txs, tx.ID, tx, func(t core.Transaction) string { return t.ID })
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	s.txs, err = remove(s.txs, id, func(t core.Transaction) string { return t.ID })
	return err
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.txs, id, func(t core.Transaction) string { return t.ID })
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nonNil(s.txs), nil
}

func (s *Store) AddBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append(s.budgets, b)
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	s.budgets, err = remove(s.budgets, id, func(b core.Budget) string { return b.ID })
	return err
}

func (s *Store) GetBudget(_ context.Context, id string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.budgets, id, func(b core.Budget) string { return b.ID })
}

func (s *Store) ListBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nonNil(s.budgets), nil
}

func (s *Store) AdjustBudgetUsed(_ context.Context, id string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.budgets, func(b core.Budget) bool { return b.ID == id })
	if i < 0 {
		return fmt.Errorf("budget %s: %w", id, ports.ErrNotFound)
	}
	s.budgets[i].Used += delta
	return nil
}

func (s *Store) SaveCarProfile(_ context.Context, p core.CarProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
	return nil
}

func (s *Store) GetCarProfile(_ context.Context) (*core.CarProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

func (s *Store) AddFuelLog(_ context.Context, l core.FuelLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fuel = append(s.fuel, l)
	return nil
}

func (s *Store) UpdateFuelLog(_ context.Context, l core.FuelLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return replace(s.fuel, l.ID, l, func(f core.FuelLog) string { return f.ID })
}

func (s *Store) DeleteFuelLog(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	s.fuel, err = remove(s.fuel, id, func(f core.FuelLog) string { return f.ID })
	return err
}

func (s *Store) AddMaintenanceLog(_ context.Context, l core.MaintenanceLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = append(s.maintenance, l)
	return nil
}

func (s *Store) DeleteMaintenanceLog(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	s.maintenance, err = remove(s.maintenance, id, func(m core.MaintenanceLog) string { return m.ID })
	return err
}

func (s *Store) AddAutoExpense(_ context.Context, e core.AutoExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) DeleteAutoExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	s.expenses, err = remove(s.expenses, id, func(e core.AutoExpense) string { return e.ID })
	return err
}

func (s *Store) AddReminder(_ context.Context, r core.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = append(s.reminders, r)
	return nil
}

func (s *Store) GetReminder(_ context.Context, id string) (core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.reminders, id, func(r core.Reminder) string { return r.ID })
}

func (s *Store) SetReminderCompleted(_ context.Context, id string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.reminders, func(r core.Reminder) bool { return r.ID == id })
	if i < 0 {
		return fmt.Errorf("reminder %s: %w", id, ports.ErrNotFound)
	}
	s.reminders[i].Completed = completed
	return nil
}

func (s *Store) DeleteReminder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	s.reminders, err = remove(s.reminders, id, func(r core.Reminder) string { return r.ID })
	return err
}

func (s *Store) ListReminders(_ context.Context) ([]core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nonNil(s.reminders), nil
}

// nonNil copies items so callers never share the backing array.
func nonNil[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func find[T any](items []T, id string, key func(T) string) (T, error) {
	for _, it := range items {
		if key(it) == id {
			return it, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s: %w", id, ports.ErrNotFound)
}

func replace[T any](items []T, id string, v T, key func(T) string) error {
	for i := range items {
		if key(items[i]) == id {
			items[i] = v
			return nil
		}
	}
	return fmt.Errorf("%s: %w", id, ports.ErrNotFound)
}

func remove[T any](items []T, id string, key func(T) string) ([]T, error) {
	i := slices.IndexFunc(items, func(it T) bool { return key(it) == id })
	if i < 0 {
		return items, fmt.Errorf("%s: %w", id, ports.ErrNotFound)
	}
	return slices.Delete(items, i, i+1), nil
}
