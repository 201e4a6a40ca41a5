package core

// Snapshot is a point-in-time copy of every record the analytics work on.
// Slices are owned by the snapshot; stores hand out fresh copies.
type Snapshot struct {
	Transactions    []Transaction    `json:"transactions"`
	Budgets         []Budget         `json:"budgets"`
	CarProfile      *CarProfile      `json:"carProfile"`
	FuelLogs        []FuelLog        `json:"fuelLogs"`
	MaintenanceLogs []MaintenanceLog `json:"maintenanceLogs"`
	AutoExpenses    []AutoExpense    `json:"autoExpenses"`
	Reminders       []Reminder       `json:"reminders"`
}

// CurrentMileage returns the odometer of the car profile, 0 without a profile.
func (s Snapshot) CurrentMileage() int {
	if s.CarProfile == nil {
		return 0
	}
	return s.CarProfile.Mileage
}
