package core

import (
	"errors"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{Title: "Coffee", Amount: 3.5, Type: Expense, Date: "2024-03-10"}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "empty title", mutate: func(tx *Transaction) { tx.Title = "  " }, wantErr: ErrEmptyTitle},
		{name: "title too long", mutate: func(tx *Transaction) { tx.Title = strings.Repeat("я", 201) }, wantErr: ErrTitleTooLong},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = 0 }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = -1 }, wantErr: ErrInvalidAmount},
		{name: "unknown type", mutate: func(tx *Transaction) { tx.Type = "transfer" }, wantErr: ErrInvalidType},
		{name: "missing date", mutate: func(tx *Transaction) { tx.Date = "" }, wantErr: ErrEmptyDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCarProfile_Validate(t *testing.T) {
	valid := CarProfile{Brand: "Lada", Model: "Vesta", Year: 2020, Mileage: 42000,
		FuelConsumption: 7.5, FuelType: "АИ-95", TankCapacity: 55, FuelPrice: 56.3}

	tests := []struct {
		name    string
		mutate  func(*CarProfile)
		wantErr error
	}{
		{name: "valid", mutate: func(*CarProfile) {}},
		{name: "year too old", mutate: func(c *CarProfile) { c.Year = 1899 }, wantErr: ErrInvalidYear},
		{name: "year too far", mutate: func(c *CarProfile) { c.Year = 2101 }, wantErr: ErrInvalidYear},
		{name: "negative mileage", mutate: func(c *CarProfile) { c.Mileage = -1 }, wantErr: ErrInvalidMileage},
		{name: "zero tank", mutate: func(c *CarProfile) { c.TankCapacity = 0 }, wantErr: ErrInvalidCapacity},
		{name: "zero price", mutate: func(c *CarProfile) { c.FuelPrice = 0 }, wantErr: ErrInvalidPrice},
		{name: "zero consumption", mutate: func(c *CarProfile) { c.FuelConsumption = 0 }, wantErr: ErrInvalidConsumption},
		{name: "no brand", mutate: func(c *CarProfile) { c.Brand = "" }, wantErr: ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReminder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		r       Reminder
		wantErr error
	}{
		{
			name: "mileage reminder",
			r:    Reminder{Title: "Oil", Type: MileageReminder, TargetMileage: intPtr(60000)},
		},
		{
			name:    "mileage reminder without target",
			r:       Reminder{Title: "Oil", Type: MileageReminder},
			wantErr: ErrMissingReminderGoal,
		},
		{
			name: "date reminder",
			r:    Reminder{Title: "Insurance", Type: DateReminder, TargetDate: "2024-12-01"},
		},
		{
			name:    "recurring without date",
			r:       Reminder{Title: "Wash", Type: RecurringReminder, Recurrence: Monthly},
			wantErr: ErrMissingReminderGoal,
		},
		{
			name:    "bad recurrence",
			r:       Reminder{Title: "Wash", Type: RecurringReminder, TargetDate: "2024-12-01", Recurrence: "hourly"},
			wantErr: ErrInvalidRecurrence,
		},
		{
			name:    "bad type",
			r:       Reminder{Title: "Wash", Type: "weird"},
			wantErr: ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshot_CurrentMileage(t *testing.T) {
	if got := (Snapshot{}).CurrentMileage(); got != 0 {
		t.Errorf("CurrentMileage() without profile = %d, want 0", got)
	}
	s := Snapshot{CarProfile: &CarProfile{Mileage: 1234}}
	if got := s.CurrentMileage(); got != 1234 {
		t.Errorf("CurrentMileage() = %d, want 1234", got)
	}
}
