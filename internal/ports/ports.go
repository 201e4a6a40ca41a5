// Package ports declares the storage interfaces the services depend on.
// Backends in internal/memory and internal/storage implement Store.
package ports

import (
	"context"
	"errors"

	"moneypilot/internal/core"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

type (
	// SnapshotReader loads a consistent copy of every record.
	SnapshotReader interface {
		Snapshot(ctx context.Context) (core.Snapshot, error)
	}

	TransactionStore interface {
		AddTransaction(ctx context.Context, tx core.Transaction) error
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	BudgetStore interface {
		AddBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id string) error
		GetBudget(ctx context.Context, id string) (core.Budget, error)
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		// AdjustBudgetUsed adds delta (possibly negative) to the budget's used total.
		AdjustBudgetUsed(ctx context.Context, id string, delta float64) error
	}

	VehicleStore interface {
		SaveCarProfile(ctx context.Context, p core.CarProfile) error
		// GetCarProfile returns nil without error when no profile was saved.
		GetCarProfile(ctx context.Context) (*core.CarProfile, error)
		AddFuelLog(ctx context.Context, l core.FuelLog) error
		UpdateFuelLog(ctx context.Context, l core.FuelLog) error
		DeleteFuelLog(ctx context.Context, id string) error
		AddMaintenanceLog(ctx context.Context, l core.MaintenanceLog) error
		DeleteMaintenanceLog(ctx context.Context, id string) error
		AddAutoExpense(ctx context.Context, e core.AutoExpense) error
		DeleteAutoExpense(ctx context.Context, id string) error
	}

	ReminderStore interface {
		AddReminder(ctx context.Context, r core.Reminder) error
		GetReminder(ctx context.Context, id string) (core.Reminder, error)
		SetReminderCompleted(ctx context.Context, id string, completed bool) error
		DeleteReminder(ctx context.Context, id string) error
		ListReminders(ctx context.Context) ([]core.Reminder, error)
	}

	// Store is the full persistence surface of the application.
	Store interface {
		SnapshotReader
		TransactionStore
		BudgetStore
		VehicleStore
		ReminderStore
	}
)
