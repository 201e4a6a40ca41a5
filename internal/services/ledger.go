package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"moneypilot/internal/categories"
	"moneypilot/internal/core"
	"moneypilot/internal/dates"
	"moneypilot/internal/finmath"
	"moneypilot/internal/log"
	"moneypilot/internal/ports"
	"moneypilot/internal/reminders"
	"moneypilot/internal/vehicle"
)

// Invalidator is told whenever stored data changes.
type Invalidator interface {
	Invalidate()
}

// Ledger applies user commands to the store. Records are validated and
// normalized here; budget totals follow the expense transactions linked
// to them.
type Ledger struct {
	store       ports.Store
	matcher     *categories.Matcher
	invalidator Invalidator
	logger      *log.Logger
	options
}

func NewLedger(store ports.Store, matcher *categories.Matcher, invalidator Invalidator, logger *log.Logger, opts ...Option) *Ledger {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Ledger{
		store:       store,
		matcher:     matcher,
		invalidator: invalidator,
		logger:      logger.WithComponent(log.ComponentLedger),
		options:     newOptions(opts),
	}
}

// AddTransaction stores a new transaction. Without a category the title is
// matched against the category table; an empty date means today.
func (l *Ledger) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	tx.Title = strings.TrimSpace(tx.Title)
	tx.Date = l.transactionDate(ctx, tx.Date)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, invalid(err)
	}
	if tx.CategoryID == "" && l.matcher != nil {
		if d := l.matcher.AutoDetect(tx.Title); d != nil {
			tx.CategoryID, tx.SubcategoryID = d.CategoryID, d.SubcategoryID
			l.logger.DebugContext(ctx, "Category detected",
				log.FieldCategoryID, d.CategoryID,
				"confidence", d.Confidence)
		}
	}
	if err := l.checkReferences(ctx, tx); err != nil {
		return core.Transaction{}, err
	}

	if err := l.store.AddTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	if err := l.adjustBudget(ctx, tx, 1); err != nil {
		if derr := l.store.DeleteTransaction(ctx, tx.ID); derr != nil {
			l.logger.ErrorContext(ctx, "Failed to undo transaction after budget error",
				log.FieldTransactionID, tx.ID, log.FieldError, derr)
		}
		return core.Transaction{}, err
	}

	l.changed()
	l.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().WithOperation(log.OpCreate).
			WithTransaction(tx.ID, tx.Amount, tx.CategoryID, tx.BudgetID).ToSlice()...)
	return tx, nil
}

// UpdateTransaction replaces a stored transaction, moving its budget effect
// from the old values to the new ones.
func (l *Ledger) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		return core.Transaction{}, invalid(ErrMissingID)
	}
	old, err := l.store.GetTransaction(ctx, tx.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	tx.Title = strings.TrimSpace(tx.Title)
	tx.Date = l.transactionDate(ctx, tx.Date)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, invalid(err)
	}
	if err := l.checkReferences(ctx, tx); err != nil {
		return core.Transaction{}, err
	}

	if err := l.store.UpdateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if err := l.rebalance(ctx, old, tx); err != nil {
		if rerr := l.store.UpdateTransaction(ctx, old); rerr != nil {
			l.logger.ErrorContext(ctx, "Failed to restore transaction after budget error",
				log.FieldTransactionID, tx.ID, log.FieldError, rerr)
		}
		return core.Transaction{}, err
	}

	l.changed()
	l.logger.InfoContext(ctx, "Transaction updated",
		log.NewFields().WithOperation(log.OpUpdate).
			WithTransaction(tx.ID, tx.Amount, tx.CategoryID, tx.BudgetID).ToSlice()...)
	return tx, nil
}

// DeleteTransaction removes a transaction and its budget effect.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	old, err := l.store.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if err := l.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := l.adjustBudget(ctx, old, -1); err != nil {
		if aerr := l.store.AddTransaction(ctx, old); aerr != nil {
			l.logger.ErrorContext(ctx, "Failed to restore transaction after budget error",
				log.FieldTransactionID, id, log.FieldError, aerr)
		}
		return err
	}

	l.changed()
	l.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete, log.FieldTransactionID, id)
	return nil
}

// transactionDate resolves "today"/"yesterday" tokens and full timestamps
// to ISO days. Input that cannot be read is kept and counted as today by
// the analytics.
func (l *Ledger) transactionDate(ctx context.Context, text string) string {
	now := l.current()
	if strings.TrimSpace(text) == "" {
		return dates.ToISODate(now)
	}
	t, ok := dates.ResolveTransactionDate(text, now)
	if !ok {
		l.logger.WarnContext(ctx, "Unparseable transaction date kept as entered", "date", text)
		return text
	}
	return dates.ToISODate(t)
}

func (l *Ledger) checkReferences(ctx context.Context, tx core.Transaction) error {
	if tx.CategoryID != "" && l.matcher != nil {
		cat, ok := l.matcher.Table().Lookup(tx.CategoryID)
		if !ok {
			return invalid(fmt.Errorf("%w: %q", ErrUnknownCategory, tx.CategoryID))
		}
		if tx.SubcategoryID != "" && !slices.ContainsFunc(cat.Subcategories, func(s categories.Subcategory) bool {
			return s.ID == tx.SubcategoryID
		}) {
			return invalid(fmt.Errorf("%w: %q/%q", ErrUnknownCategory, tx.CategoryID, tx.SubcategoryID))
		}
	}
	if tx.BudgetID != "" {
		if _, err := l.store.GetBudget(ctx, tx.BudgetID); err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return invalid(fmt.Errorf("%w: %q", ErrUnknownBudget, tx.BudgetID))
			}
			return fmt.Errorf("get budget: %w", err)
		}
	}
	return nil
}

func budgetEffect(tx core.Transaction) float64 {
	if tx.Type != core.Expense || tx.BudgetID == "" {
		return 0
	}
	return tx.Amount
}

// adjustBudget adds sign*amount of an expense to its budget. Reversing the
// effect on a budget that no longer exists is a no-op.
func (l *Ledger) adjustBudget(ctx context.Context, tx core.Transaction, sign float64) error {
	delta := budgetEffect(tx) * sign
	if delta == 0 {
		return nil
	}
	err := l.store.AdjustBudgetUsed(ctx, tx.BudgetID, delta)
	if err != nil && sign < 0 && errors.Is(err, ports.ErrNotFound) {
		l.logger.DebugContext(ctx, "Budget gone, nothing to reverse", log.FieldBudgetID, tx.BudgetID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("adjust budget %s: %w", tx.BudgetID, err)
	}
	return nil
}

func (l *Ledger) rebalance(ctx context.Context, old, cur core.Transaction) error {
	if err := l.adjustBudget(ctx, old, -1); err != nil {
		return err
	}
	if err := l.adjustBudget(ctx, cur, 1); err != nil {
		if rerr := l.adjustBudget(ctx, old, 1); rerr != nil {
			l.logger.ErrorContext(ctx, "Failed to restore budget", log.FieldBudgetID, old.BudgetID, log.FieldError, rerr)
		}
		return err
	}
	return nil
}

// AddBudget creates a budget with nothing spent yet.
func (l *Ledger) AddBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	b.Name = strings.TrimSpace(b.Name)
	b.Used = 0
	if err := b.Validate(); err != nil {
		return core.Budget{}, invalid(err)
	}
	if err := l.store.AddBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("add budget: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Budget added", log.FieldBudgetID, b.ID, "limit", b.Limit)
	return b, nil
}

// DeleteBudget removes a budget. Transactions keep their link; it is
// ignored from then on.
func (l *Ledger) DeleteBudget(ctx context.Context, id string) error {
	if err := l.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Budget deleted", log.FieldBudgetID, id)
	return nil
}

func (l *Ledger) SaveCarProfile(ctx context.Context, p core.CarProfile) (core.CarProfile, error) {
	p.Brand = strings.TrimSpace(p.Brand)
	p.Model = strings.TrimSpace(p.Model)
	if err := p.Validate(); err != nil {
		return core.CarProfile{}, invalid(err)
	}
	if err := l.store.SaveCarProfile(ctx, p); err != nil {
		return core.CarProfile{}, fmt.Errorf("save car profile: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Car profile saved", "brand", p.Brand, "model", p.Model, "mileage", p.Mileage)
	return p, nil
}

// AddFuelLog records a fill-up. The price per liter is derived from the
// paid amount and the fuel type defaults to the profile's.
func (l *Ledger) AddFuelLog(ctx context.Context, f core.FuelLog) (core.FuelLog, error) {
	f.ID = uuid.NewString()
	f, err := l.prepareFuelLog(ctx, f)
	if err != nil {
		return core.FuelLog{}, err
	}
	if err := l.store.AddFuelLog(ctx, f); err != nil {
		return core.FuelLog{}, fmt.Errorf("add fuel log: %w", err)
	}
	l.raiseMileage(ctx, f.Mileage)
	l.changed()
	l.logger.InfoContext(ctx, "Fuel log added", "fuel_log_id", f.ID, log.FieldAmount, f.Amount, "liters", f.Liters)
	return f, nil
}

func (l *Ledger) UpdateFuelLog(ctx context.Context, f core.FuelLog) (core.FuelLog, error) {
	if f.ID == "" {
		return core.FuelLog{}, invalid(ErrMissingID)
	}
	f, err := l.prepareFuelLog(ctx, f)
	if err != nil {
		return core.FuelLog{}, err
	}
	if err := l.store.UpdateFuelLog(ctx, f); err != nil {
		return core.FuelLog{}, fmt.Errorf("update fuel log: %w", err)
	}
	l.raiseMileage(ctx, f.Mileage)
	l.changed()
	l.logger.InfoContext(ctx, "Fuel log updated", "fuel_log_id", f.ID)
	return f, nil
}

func (l *Ledger) prepareFuelLog(ctx context.Context, f core.FuelLog) (core.FuelLog, error) {
	date, err := l.eventDate(f.Date)
	if err != nil {
		return core.FuelLog{}, err
	}
	f.Date = date
	f.Station = strings.TrimSpace(f.Station)
	if err := f.Validate(); err != nil {
		return core.FuelLog{}, invalid(err)
	}
	f.PricePerLiter = finmath.Round(f.Amount/f.Liters, 2)
	if f.FuelType == "" {
		p, err := l.store.GetCarProfile(ctx)
		if err != nil {
			return core.FuelLog{}, fmt.Errorf("get car profile: %w", err)
		}
		if p != nil {
			f.FuelType = p.FuelType
		}
	}
	return f, nil
}

func (l *Ledger) DeleteFuelLog(ctx context.Context, id string) error {
	if err := l.store.DeleteFuelLog(ctx, id); err != nil {
		return fmt.Errorf("delete fuel log: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Fuel log deleted", "fuel_log_id", id)
	return nil
}

// AddMaintenanceLog records a service visit. A next service mileage or date
// each produces a reminder, returned alongside the stored log.
func (l *Ledger) AddMaintenanceLog(ctx context.Context, m core.MaintenanceLog) (core.MaintenanceLog, []core.Reminder, error) {
	m.ID = uuid.NewString()
	date, err := l.eventDate(m.Date)
	if err != nil {
		return core.MaintenanceLog{}, nil, err
	}
	m.Date = date
	m.Description = strings.TrimSpace(m.Description)
	m.Workshop = strings.TrimSpace(m.Workshop)
	if m.Category == "" {
		m.Category = vehicle.CategoryMaintenance
	}
	if err := m.Validate(); err != nil {
		return core.MaintenanceLog{}, nil, invalid(err)
	}
	if m.NextServiceMileage != nil && *m.NextServiceMileage <= m.Mileage {
		return core.MaintenanceLog{}, nil, invalid(ErrNextServiceMileage)
	}
	if m.NextServiceDate != "" {
		next, err := l.eventDate(m.NextServiceDate)
		if err != nil {
			return core.MaintenanceLog{}, nil, err
		}
		m.NextServiceDate = next
	}

	if err := l.store.AddMaintenanceLog(ctx, m); err != nil {
		return core.MaintenanceLog{}, nil, fmt.Errorf("add maintenance log: %w", err)
	}
	l.raiseMileage(ctx, m.Mileage)

	var created []core.Reminder
	for _, r := range followUps(m) {
		r.ID = uuid.NewString()
		r.CreatedAt = l.current()
		if err := l.store.AddReminder(ctx, r); err != nil {
			l.changed()
			return m, created, fmt.Errorf("add follow-up reminder: %w", err)
		}
		created = append(created, r)
	}

	l.changed()
	l.logger.InfoContext(ctx, "Maintenance log added",
		"maintenance_log_id", m.ID,
		log.FieldAmount, m.Amount,
		"reminders", len(created))
	return m, created, nil
}

func followUps(m core.MaintenanceLog) []core.Reminder {
	title := m.Description
	if title == "" {
		title = vehicle.LookupAutoCategory(m.Category).Label
	}
	var out []core.Reminder
	if m.NextServiceMileage != nil {
		km := *m.NextServiceMileage
		out = append(out, core.Reminder{Title: title, Type: core.MileageReminder, TargetMileage: &km})
	}
	if m.NextServiceDate != "" {
		out = append(out, core.Reminder{Title: title, Type: core.DateReminder, TargetDate: m.NextServiceDate})
	}
	return out
}

func (l *Ledger) DeleteMaintenanceLog(ctx context.Context, id string) error {
	if err := l.store.DeleteMaintenanceLog(ctx, id); err != nil {
		return fmt.Errorf("delete maintenance log: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Maintenance log deleted", "maintenance_log_id", id)
	return nil
}

func (l *Ledger) AddAutoExpense(ctx context.Context, e core.AutoExpense) (core.AutoExpense, error) {
	e.ID = uuid.NewString()
	date, err := l.eventDate(e.Date)
	if err != nil {
		return core.AutoExpense{}, err
	}
	e.Date = date
	e.Title = strings.TrimSpace(e.Title)
	if err := e.Validate(); err != nil {
		return core.AutoExpense{}, invalid(err)
	}
	if err := l.store.AddAutoExpense(ctx, e); err != nil {
		return core.AutoExpense{}, fmt.Errorf("add auto expense: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Auto expense added", "auto_expense_id", e.ID, log.FieldAmount, e.Amount, "category", e.Category)
	return e, nil
}

func (l *Ledger) DeleteAutoExpense(ctx context.Context, id string) error {
	if err := l.store.DeleteAutoExpense(ctx, id); err != nil {
		return fmt.Errorf("delete auto expense: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Auto expense deleted", "auto_expense_id", id)
	return nil
}

func (l *Ledger) AddReminder(ctx context.Context, r core.Reminder) (core.Reminder, error) {
	r.ID = uuid.NewString()
	r.Title = strings.TrimSpace(r.Title)
	r.Completed = false
	r.CreatedAt = l.current()
	if r.TargetDate != "" {
		date, err := l.eventDate(r.TargetDate)
		if err != nil {
			return core.Reminder{}, err
		}
		r.TargetDate = date
	}
	if err := r.Validate(); err != nil {
		return core.Reminder{}, invalid(err)
	}
	if err := l.store.AddReminder(ctx, r); err != nil {
		return core.Reminder{}, fmt.Errorf("add reminder: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Reminder added", log.FieldReminderID, r.ID, "type", r.Type)
	return r, nil
}

// CompleteReminder marks a reminder done. A recurring reminder is followed
// by its next occurrence, which is returned; otherwise next is nil.
func (l *Ledger) CompleteReminder(ctx context.Context, id string) (next *core.Reminder, err error) {
	r, err := l.store.GetReminder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	if r.Completed {
		return nil, invalid(ErrAlreadyCompleted)
	}
	if err := l.store.SetReminderCompleted(ctx, id, true); err != nil {
		return nil, fmt.Errorf("complete reminder: %w", err)
	}
	defer l.changed()

	n, ok := reminders.NextOccurrence(r, l.loc)
	if !ok {
		l.logger.InfoContext(ctx, "Reminder completed", log.FieldOperation, log.OpComplete, log.FieldReminderID, id)
		return nil, nil
	}
	n.ID = uuid.NewString()
	n.CreatedAt = l.current()
	if err := l.store.AddReminder(ctx, n); err != nil {
		return nil, fmt.Errorf("schedule next occurrence: %w", err)
	}
	l.logger.InfoContext(ctx, "Reminder completed",
		log.FieldOperation, log.OpComplete,
		log.FieldReminderID, id,
		"next_reminder_id", n.ID,
		"next_date", n.TargetDate)
	return &n, nil
}

func (l *Ledger) DeleteReminder(ctx context.Context, id string) error {
	if err := l.store.DeleteReminder(ctx, id); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	l.changed()
	l.logger.InfoContext(ctx, "Reminder deleted", log.FieldReminderID, id)
	return nil
}

// eventDate normalizes the date of a vehicle record. Unlike transactions
// these must be readable; empty means today.
func (l *Ledger) eventDate(text string) (string, error) {
	now := l.current()
	if strings.TrimSpace(text) == "" {
		return dates.ToISODate(now), nil
	}
	t, ok := dates.ResolveTransactionDate(text, now)
	if !ok {
		return "", invalid(fmt.Errorf("%w: %q", ErrInvalidDate, text))
	}
	return dates.ToISODate(t), nil
}

func (l *Ledger) changed() {
	if l.invalidator != nil {
		l.invalidator.Invalidate()
	}
}

// raiseMileage moves the profile odometer forward to mileage. Failures are
// logged; the record that carried the mileage is already stored.
func (l *Ledger) raiseMileage(ctx context.Context, mileage int) {
	p, err := l.store.GetCarProfile(ctx)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to load car profile", log.FieldError, err)
		return
	}
	if p == nil || mileage <= p.Mileage {
		return
	}
	prev := p.Mileage
	p.Mileage = mileage
	if err := l.store.SaveCarProfile(ctx, *p); err != nil {
		l.logger.ErrorContext(ctx, "Failed to update car mileage", log.FieldError, err)
		return
	}
	l.logger.InfoContext(ctx, "Car mileage raised", "from", prev, "to", mileage)
}
