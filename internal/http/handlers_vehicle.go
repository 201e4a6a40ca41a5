package http

import (
	"context"
	"net/http"

	"moneypilot/internal/core"
	"moneypilot/internal/log"
)

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := s.insights.Vehicle(r.Context())
	if err != nil {
		fail(w, r, "vehicle", err)
		return
	}
	respond(w, r, OK(v))
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var p core.CarProfile
	if err := decodeJSON(w, r, s.maxBody, &p); err != nil {
		fail(w, r, log.OpUpdate, err)
		return
	}
	p.FuelType = sanitizeInput(p.FuelType)
	saved, err := s.ledger.SaveCarProfile(r.Context(), p)
	if err != nil {
		fail(w, r, log.OpUpdate, err)
		return
	}
	respond(w, r, OK(saved))
}

type fuelLogRequest struct {
	Date     string  `json:"date"`
	Liters   float64 `json:"liters"`
	Amount   Amount  `json:"amount"`
	Mileage  int     `json:"mileage"`
	FuelType string  `json:"fuelType"`
	Station  string  `json:"station"`
	FullTank bool    `json:"fullTank"`
}

func (f fuelLogRequest) fuelLog(id string) core.FuelLog {
	return core.FuelLog{
		ID:       id,
		Date:     sanitizeInput(f.Date),
		Liters:   f.Liters,
		Amount:   float64(f.Amount),
		Mileage:  f.Mileage,
		FuelType: sanitizeInput(f.FuelType),
		Station:  sanitizeInput(f.Station),
		FullTank: f.FullTank,
	}
}

func (s *Server) handleCreateFuelLog(w http.ResponseWriter, r *http.Request) {
	var req fuelLogRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	f, err := s.ledger.AddFuelLog(r.Context(), req.fuelLog(""))
	if err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	respond(w, r, Created(f))
}

func (s *Server) handleUpdateFuelLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, log.OpUpdate, err)
		return
	}
	var req fuelLogRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		fail(w, r, log.OpUpdate, err)
		return
	}
	f, err := s.ledger.UpdateFuelLog(r.Context(), req.fuelLog(id))
	if err != nil {
		fail(w, r, log.OpUpdate, err)
		return
	}
	respond(w, r, OK(f))
}

func (s *Server) handleDeleteFuelLog(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.ledger.DeleteFuelLog)
}

type maintenanceRequest struct {
	Date               string               `json:"date"`
	Type               core.MaintenanceType `json:"type"`
	Category           string               `json:"category"`
	Description        string               `json:"description"`
	Amount             Amount               `json:"amount"`
	Mileage            int                  `json:"mileage"`
	Workshop           string               `json:"workshop"`
	NextServiceMileage *int                 `json:"nextServiceMileage"`
	NextServiceDate    string               `json:"nextServiceDate"`
}

type maintenanceResponse struct {
	Log       core.MaintenanceLog `json:"log"`
	Reminders []core.Reminder     `json:"reminders"`
}

func (s *Server) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	m, follow, err := s.ledger.AddMaintenanceLog(r.Context(), core.MaintenanceLog{
		Date:               sanitizeInput(req.Date),
		Type:               req.Type,
		Category:           sanitizeInput(req.Category),
		Description:        sanitizeInput(req.Description),
		Amount:             float64(req.Amount),
		Mileage:            req.Mileage,
		Workshop:           sanitizeInput(req.Workshop),
		NextServiceMileage: req.NextServiceMileage,
		NextServiceDate:    sanitizeInput(req.NextServiceDate),
	})
	if err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	if follow == nil {
		follow = []core.Reminder{}
	}
	respond(w, r, Created(maintenanceResponse{Log: m, Reminders: follow}))
}

func (s *Server) handleDeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.ledger.DeleteMaintenanceLog)
}

type autoExpenseRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Amount   Amount `json:"amount"`
	Date     string `json:"date"`
}

func (s *Server) handleCreateAutoExpense(w http.ResponseWriter, r *http.Request) {
	var req autoExpenseRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	e, err := s.ledger.AddAutoExpense(r.Context(), core.AutoExpense{
		Title:    sanitizeInput(req.Title),
		Category: sanitizeInput(req.Category),
		Amount:   float64(req.Amount),
		Date:     sanitizeInput(req.Date),
	})
	if err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	respond(w, r, Created(e))
}

func (s *Server) handleDeleteAutoExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.ledger.DeleteAutoExpense)
}

type reminderRequest struct {
	Title         string            `json:"title"`
	Type          core.ReminderType `json:"type"`
	TargetMileage *int              `json:"targetMileage"`
	TargetDate    string            `json:"targetDate"`
	Recurrence    core.Recurrence   `json:"recurrence"`
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(w, r, s.maxBody, &req); err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	rem, err := s.ledger.AddReminder(r.Context(), core.Reminder{
		Title:         sanitizeInput(req.Title),
		Type:          req.Type,
		TargetMileage: req.TargetMileage,
		TargetDate:    sanitizeInput(req.TargetDate),
		Recurrence:    req.Recurrence,
	})
	if err != nil {
		fail(w, r, log.OpCreate, err)
		return
	}
	respond(w, r, Created(rem))
}

type completeResponse struct {
	ID   string         `json:"id"`
	Next *core.Reminder `json:"next"`
}

func (s *Server) handleCompleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, log.OpComplete, err)
		return
	}
	next, err := s.ledger.CompleteReminder(r.Context(), id)
	if err != nil {
		fail(w, r, log.OpComplete, err)
		return
	}
	respond(w, r, OK(completeResponse{ID: id, Next: next}))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.ledger.DeleteReminder)
}

func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, del func(context.Context, string) error) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, log.OpDelete, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		fail(w, r, log.OpDelete, err)
		return
	}
	respond(w, r, NoContent())
}
