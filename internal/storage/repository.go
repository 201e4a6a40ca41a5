// Package storage is the SQLite implementation of ports.Store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"moneypilot/internal/core"
	"moneypilot/internal/ports"

	_ "modernc.org/sqlite"
)

var _ ports.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteRepository(dbPath string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Snapshot loads every table concurrently. Each slice is consistent on its
// own; writes landing between the reads may be visible in some slices only.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Transactions, err = r.ListTransactions(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Budgets, err = r.ListBudgets(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.CarProfile, err = r.GetCarProfile(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.FuelLogs, err = r.listFuelLogs(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.MaintenanceLogs, err = r.listMaintenanceLogs(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.AutoExpenses, err = r.listAutoExpenses(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Reminders, err = r.ListReminders(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// --- transactions ---

const selectTransactions = `SELECT id, title, amount, type, date, budget_id, category_id, subcategory_id
FROM transactions`

func (r *SQLiteRepository) AddTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO transactions
(id, title, amount, type, date, budget_id, category_id, subcategory_id, seq)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions))`,
		tx.ID, tx.Title, tx.Amount, string(tx.Type), tx.Date, tx.BudgetID, tx.CategoryID, tx.SubcategoryID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	r.logger.DebugContext(ctx, "Transaction saved to SQLite", "id", tx.ID, "type", tx.Type)
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions
SET title = ?, amount = ?, type = ?, date = ?, budget_id = ?, category_id = ?, subcategory_id = ?
WHERE id = ?`,
		tx.Title, tx.Amount, string(tx.Type), tx.Date, tx.BudgetID, tx.CategoryID, tx.SubcategoryID, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return expectOne(res, "transaction", tx.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "transactions", "transaction", id)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransactions+` WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return queryAll(ctx, r.db, selectTransactions+` ORDER BY seq`, scanTransaction)
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var tx core.Transaction
	var typ string
	err := s.Scan(&tx.ID, &tx.Title, &tx.Amount, &typ, &tx.Date, &tx.BudgetID, &tx.CategoryID, &tx.SubcategoryID)
	tx.Type = core.TransactionType(typ)
	return tx, err
}

// --- budgets ---

const selectBudgets = `SELECT id, name, used, limit_amt FROM budgets`

func (r *SQLiteRepository) AddBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO budgets (id, name, used, limit_amt) VALUES (?, ?, ?, ?)`,
		b.ID, b.Name, b.Used, b.Limit)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "budgets", "budget", id)
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx, selectBudgets+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return queryAll(ctx, r.db, selectBudgets+` ORDER BY rowid`, scanBudget)
}

func (r *SQLiteRepository) AdjustBudgetUsed(ctx context.Context, id string, delta float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE budgets SET used = used + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("adjust budget used: %w", err)
	}
	return expectOne(res, "budget", id)
}

func scanBudget(s scanner) (core.Budget, error) {
	var b core.Budget
	err := s.Scan(&b.ID, &b.Name, &b.Used, &b.Limit)
	return b, err
}

// --- vehicle ---

func (r *SQLiteRepository) SaveCarProfile(ctx context.Context, p core.CarProfile) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO car_profile
(id, brand, model, year, mileage, fuel_consumption, fuel_type, tank_capacity, fuel_price)
VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    brand = excluded.brand, model = excluded.model, year = excluded.year,
    mileage = excluded.mileage, fuel_consumption = excluded.fuel_consumption,
    fuel_type = excluded.fuel_type, tank_capacity = excluded.tank_capacity,
    fuel_price = excluded.fuel_price`,
		p.Brand, p.Model, p.Year, p.Mileage, p.FuelConsumption, p.FuelType, p.TankCapacity, p.FuelPrice)
	if err != nil {
		return fmt.Errorf("save car profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetCarProfile(ctx context.Context) (*core.CarProfile, error) {
	var p core.CarProfile
	err := r.db.QueryRowContext(ctx, `SELECT brand, model, year, mileage, fuel_consumption, fuel_type,
tank_capacity, fuel_price FROM car_profile WHERE id = 1`).
		Scan(&p.Brand, &p.Model, &p.Year, &p.Mileage, &p.FuelConsumption, &p.FuelType, &p.TankCapacity, &p.FuelPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get car profile: %w", err)
	}
	return &p, nil
}

const selectFuelLogs = `SELECT id, date, liters, amount, mileage, price_per_liter, fuel_type, station, full_tank
FROM fuel_logs`

func (r *SQLiteRepository) AddFuelLog(ctx context.Context, l core.FuelLog) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO fuel_logs
(id, date, liters, amount, mileage, price_per_liter, fuel_type, station, full_tank, seq)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM fuel_logs))`,
		l.ID, l.Date, l.Liters, l.Amount, l.Mileage, l.PricePerLiter, l.FuelType, l.Station, l.FullTank)
	if err != nil {
		return fmt.Errorf("insert fuel log: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateFuelLog(ctx context.Context, l core.FuelLog) error {
	res, err := r.db.ExecContext(ctx, `UPDATE fuel_logs
SET date = ?, liters = ?, amount = ?, mileage = ?, price_per_liter = ?, fuel_type = ?, station = ?, full_tank = ?
WHERE id = ?`,
		l.Date, l.Liters, l.Amount, l.Mileage, l.PricePerLiter, l.FuelType, l.Station, l.FullTank, l.ID)
	if err != nil {
		return fmt.Errorf("update fuel log: %w", err)
	}
	return expectOne(res, "fuel log", l.ID)
}

func (r *SQLiteRepository) DeleteFuelLog(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "fuel_logs", "fuel log", id)
}

func (r *SQLiteRepository) listFuelLogs(ctx context.Context) ([]core.FuelLog, error) {
	return queryAll(ctx, r.db, selectFuelLogs+` ORDER BY seq`, func(s scanner) (core.FuelLog, error) {
		var l core.FuelLog
		err := s.Scan(&l.ID, &l.Date, &l.Liters, &l.Amount, &l.Mileage, &l.PricePerLiter, &l.FuelType, &l.Station, &l.FullTank)
		return l, err
	})
}

func (r *SQLiteRepository) AddMaintenanceLog(ctx context.Context, l core.MaintenanceLog) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO maintenance_logs
(id, date, type, category, description, amount, mileage, workshop, next_service_mileage, next_service_date, seq)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM maintenance_logs))`,
		l.ID, l.Date, string(l.Type), l.Category, l.Description, l.Amount, l.Mileage, l.Workshop,
		nullInt(l.NextServiceMileage), l.NextServiceDate)
	if err != nil {
		return fmt.Errorf("insert maintenance log: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteMaintenanceLog(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "maintenance_logs", "maintenance log", id)
}

func (r *SQLiteRepository) listMaintenanceLogs(ctx context.Context) ([]core.MaintenanceLog, error) {
	const q = `SELECT id, date, type, category, description, amount, mileage, workshop,
next_service_mileage, next_service_date FROM maintenance_logs ORDER BY seq`
	return queryAll(ctx, r.db, q, func(s scanner) (core.MaintenanceLog, error) {
		var (
			l    core.MaintenanceLog
			typ  string
			next sql.NullInt64
		)
		err := s.Scan(&l.ID, &l.Date, &typ, &l.Category, &l.Description, &l.Amount, &l.Mileage, &l.Workshop,
			&next, &l.NextServiceDate)
		l.Type = core.MaintenanceType(typ)
		l.NextServiceMileage = intPtr(next)
		return l, err
	})
}

func (r *SQLiteRepository) AddAutoExpense(ctx context.Context, e core.AutoExpense) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO auto_expenses (id, title, category, amount, date, seq)
VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM auto_expenses))`,
		e.ID, e.Title, e.Category, e.Amount, e.Date)
	if err != nil {
		return fmt.Errorf("insert auto expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAutoExpense(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "auto_expenses", "auto expense", id)
}

func (r *SQLiteRepository) listAutoExpenses(ctx context.Context) ([]core.AutoExpense, error) {
	const q = `SELECT id, title, category, amount, date FROM auto_expenses ORDER BY seq`
	return queryAll(ctx, r.db, q, func(s scanner) (core.AutoExpense, error) {
		var e core.AutoExpense
		err := s.Scan(&e.ID, &e.Title, &e.Category, &e.Amount, &e.Date)
		return e, err
	})
}

// --- reminders ---

const selectReminders = `SELECT id, title, type, target_mileage, target_date, recurrence, completed, created_at
FROM reminders`

func (r *SQLiteRepository) AddReminder(ctx context.Context, rem core.Reminder) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO reminders
(id, title, type, target_mileage, target_date, recurrence, completed, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.Title, string(rem.Type), nullInt(rem.TargetMileage), rem.TargetDate,
		string(rem.Recurrence), rem.Completed, rem.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetReminder(ctx context.Context, id string) (core.Reminder, error) {
	rem, err := scanReminder(r.db.QueryRowContext(ctx, selectReminders+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Reminder{}, fmt.Errorf("reminder %s: %w", id, ports.ErrNotFound)
	}
	if err != nil {
		return core.Reminder{}, fmt.Errorf("get reminder: %w", err)
	}
	return rem, nil
}

func (r *SQLiteRepository) SetReminderCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reminders SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	return expectOne(res, "reminder", id)
}

func (r *SQLiteRepository) DeleteReminder(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "reminders", "reminder", id)
}

func (r *SQLiteRepository) ListReminders(ctx context.Context) ([]core.Reminder, error) {
	return queryAll(ctx, r.db, selectReminders+` ORDER BY rowid`, scanReminder)
}

func scanReminder(s scanner) (core.Reminder, error) {
	var (
		rem                 core.Reminder
		typ, rec, createdAt string
		target              sql.NullInt64
	)
	if err := s.Scan(&rem.ID, &rem.Title, &typ, &target, &rem.TargetDate, &rec, &rem.Completed, &createdAt); err != nil {
		return rem, err
	}
	rem.Type = core.ReminderType(typ)
	rem.Recurrence = core.Recurrence(rec)
	rem.TargetMileage = intPtr(target)
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return rem, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	rem.CreatedAt = t
	return rem, nil
}

// --- helpers ---

type scanner interface {
	Scan(dest ...any) error
}

func queryAll[T any](ctx context.Context, db *sql.DB, query string, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// deleteByID removes one row; table is always a package constant.
func (r *SQLiteRepository) deleteByID(ctx context.Context, table, kind, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return expectOne(res, kind, id)
}

func expectOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ports.ErrNotFound)
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
