package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Maintenance MaintenanceType = "maintenance"
	Repair      MaintenanceType = "repair"
)

const (
	MileageReminder   ReminderType = "mileage"
	DateReminder      ReminderType = "date"
	RecurringReminder ReminderType = "recurring"
)

const (
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

type (
	TransactionType string
	MaintenanceType string
	ReminderType    string
	Recurrence      string

	Transaction struct {
		ID            string          `json:"id"`
		Title         string          `json:"title"`
		Amount        float64         `json:"amount"`
		Type          TransactionType `json:"type"`
		Date          string          `json:"date"`
		BudgetID      string          `json:"budgetId,omitempty"`
		CategoryID    string          `json:"categoryId,omitempty"`
		SubcategoryID string          `json:"subcategoryId,omitempty"`
	}

	Budget struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Used  float64 `json:"used"`
		Limit float64 `json:"limit"`
	}

	CarProfile struct {
		Brand           string  `json:"brand"`
		Model           string  `json:"model"`
		Year            int     `json:"year"`
		Mileage         int     `json:"mileage"`
		FuelConsumption float64 `json:"fuelConsumption"` // L/100km, manufacturer rating
		FuelType        string  `json:"fuelType"`
		TankCapacity    float64 `json:"tankCapacity"` // liters
		FuelPrice       float64 `json:"fuelPrice"`    // per liter
	}

	FuelLog struct {
		ID            string  `json:"id"`
		Date          string  `json:"date"`
		Liters        float64 `json:"liters"`
		Amount        float64 `json:"amount"`
		Mileage       int     `json:"mileage"`
		PricePerLiter float64 `json:"pricePerLiter"`
		FuelType      string  `json:"fuelType"`
		Station       string  `json:"station"`
		FullTank      bool    `json:"fullTank"`
	}

	MaintenanceLog struct {
		ID                 string          `json:"id"`
		Date               string          `json:"date"`
		Type               MaintenanceType `json:"type"`
		Category           string          `json:"category"`
		Description        string          `json:"description"`
		Amount             float64         `json:"amount"`
		Mileage            int             `json:"mileage"`
		Workshop           string          `json:"workshop"`
		NextServiceMileage *int            `json:"nextServiceMileage,omitempty"`
		NextServiceDate    string          `json:"nextServiceDate,omitempty"`
	}

	// AutoExpense is a vehicle cost that is neither fuel nor maintenance
	// (parking, insurance, fines, ...).
	AutoExpense struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		Category string  `json:"category,omitempty"`
		Amount   float64 `json:"amount"`
		Date     string  `json:"date"`
	}

	Reminder struct {
		ID            string       `json:"id"`
		Title         string       `json:"title"`
		Type          ReminderType `json:"type"`
		TargetMileage *int         `json:"targetMileage,omitempty"`
		TargetDate    string       `json:"targetDate,omitempty"`
		Recurrence    Recurrence   `json:"recurrence,omitempty"`
		Completed     bool         `json:"completed"`
		CreatedAt     time.Time    `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid type")
	ErrEmptyTitle          = errors.New("empty title")
	ErrTitleTooLong        = errors.New("title too long (max 200 characters)")
	ErrEmptyDate           = errors.New("empty date")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidLimit        = errors.New("invalid limit")
	ErrInvalidYear         = errors.New("invalid year")
	ErrInvalidMileage      = errors.New("invalid mileage")
	ErrInvalidLiters       = errors.New("invalid liters")
	ErrInvalidCapacity     = errors.New("invalid tank capacity")
	ErrInvalidPrice        = errors.New("invalid fuel price")
	ErrInvalidConsumption  = errors.New("invalid fuel consumption")
	ErrInvalidRecurrence   = errors.New("invalid recurrence")
	ErrMissingReminderGoal = errors.New("reminder needs a target mileage or date")
)

const maxTitleLength = 200

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (t ReminderType) IsValid() bool {
	switch t {
	case MileageReminder, DateReminder, RecurringReminder:
		return true
	}
	return false
}

func (r Recurrence) IsValid() bool {
	switch r {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len([]rune(title)) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if strings.TrimSpace(t.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if b.Limit <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

func (c CarProfile) Validate() error {
	if strings.TrimSpace(c.Brand) == "" || strings.TrimSpace(c.Model) == "" {
		return ErrEmptyName
	}
	if c.Year < 1900 || c.Year > 2100 {
		return ErrInvalidYear
	}
	if c.Mileage < 0 {
		return ErrInvalidMileage
	}
	if c.FuelConsumption <= 0 {
		return ErrInvalidConsumption
	}
	if c.TankCapacity <= 0 {
		return ErrInvalidCapacity
	}
	if c.FuelPrice <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (f FuelLog) Validate() error {
	if strings.TrimSpace(f.Date) == "" {
		return ErrEmptyDate
	}
	if f.Liters <= 0 {
		return ErrInvalidLiters
	}
	if f.Amount <= 0 {
		return ErrInvalidAmount
	}
	if f.Mileage < 0 {
		return ErrInvalidMileage
	}
	return nil
}

func (m MaintenanceLog) Validate() error {
	if strings.TrimSpace(m.Date) == "" {
		return ErrEmptyDate
	}
	if m.Type != Maintenance && m.Type != Repair {
		return fmt.Errorf("%w: %q", ErrInvalidType, m.Type)
	}
	if m.Amount <= 0 {
		return ErrInvalidAmount
	}
	if m.Mileage < 0 {
		return ErrInvalidMileage
	}
	if m.NextServiceMileage != nil && *m.NextServiceMileage < 0 {
		return ErrInvalidMileage
	}
	return nil
}

func (a AutoExpense) Validate() error {
	if err := validateTitle(a.Title); err != nil {
		return err
	}
	if a.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(a.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

func (r Reminder) Validate() error {
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, r.Type)
	}
	if r.Recurrence != "" && !r.Recurrence.IsValid() {
		return ErrInvalidRecurrence
	}
	switch r.Type {
	case MileageReminder:
		if r.TargetMileage == nil {
			return ErrMissingReminderGoal
		}
		if *r.TargetMileage < 0 {
			return ErrInvalidMileage
		}
	default:
		if strings.TrimSpace(r.TargetDate) == "" {
			return ErrMissingReminderGoal
		}
	}
	return nil
}
