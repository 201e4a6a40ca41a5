package services

import (
	"context"
	"errors"
	"fmt"

	"moneypilot/internal/analytics"
	"moneypilot/internal/core"
	"moneypilot/internal/log"
	"moneypilot/internal/sheets"
)

// ErrExportDisabled is returned when no report writer is configured.
var ErrExportDisabled = errors.New("report export is not configured")

// Reports assembles the dashboard figures into a spreadsheet report.
type Reports struct {
	insights *Insights
	writer   sheets.ReportWriter
	logger   *log.Logger
	options
}

// NewReports accepts a nil writer; Export then fails with ErrExportDisabled.
func NewReports(insights *Insights, writer sheets.ReportWriter, logger *log.Logger, opts ...Option) *Reports {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Reports{
		insights: insights,
		writer:   writer,
		logger:   logger.WithComponent(log.ComponentSheets),
		options:  newOptions(opts),
	}
}

func (r *Reports) Enabled() bool {
	return r.writer != nil
}

// Export builds the report and hands it to the writer.
func (r *Reports) Export(ctx context.Context) (string, error) {
	if r.writer == nil {
		return "", ErrExportDisabled
	}
	report, err := r.Build(ctx)
	if err != nil {
		return "", err
	}
	ref, err := r.writer.WriteReport(ctx, report)
	if err != nil {
		r.logger.ErrorContext(ctx, "Report export failed", log.FieldOperation, log.OpExport, log.FieldError, err)
		return "", fmt.Errorf("write report: %w", err)
	}
	r.logger.InfoContext(ctx, "Report exported",
		log.FieldOperation, log.OpExport,
		"ref", ref,
		"sections", len(report.Sections))
	return ref, nil
}

// Build collects summary, category, budget and vehicle tables.
func (r *Reports) Build(ctx context.Context) (sheets.Report, error) {
	dash, err := r.insights.Dashboard(ctx)
	if err != nil {
		return sheets.Report{}, fmt.Errorf("dashboard: %w", err)
	}
	expenses, err := r.insights.CategoryStats(ctx, core.Expense, 0)
	if err != nil {
		return sheets.Report{}, fmt.Errorf("expense stats: %w", err)
	}
	income, err := r.insights.CategoryStats(ctx, core.Income, 0)
	if err != nil {
		return sheets.Report{}, fmt.Errorf("income stats: %w", err)
	}
	car, err := r.insights.Vehicle(ctx)
	if err != nil {
		return sheets.Report{}, fmt.Errorf("vehicle: %w", err)
	}

	summary := sheets.Section{
		Name:   "Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Total income", dash.Summary.TotalIncome},
			{"Total expense", dash.Summary.TotalExpense},
			{"Net balance", dash.Summary.NetBalance},
			{"Savings rate %", optional(dash.Summary.SavingsRate)},
			{"Daily budget", dash.DailyBudget},
			{"Expenses this week", dash.Trend.CurrentWeek},
			{"Expenses last week", dash.Trend.PreviousWeek},
		},
	}

	budgets := sheets.Section{Name: "Budgets", Header: []string{"Budget", "Used", "Limit", "Utilization %", "Health"}}
	for _, b := range dash.Budgets {
		budgets.Rows = append(budgets.Rows, []any{b.Name, b.Used, b.Limit, b.UtilizationPercent, string(b.Health)})
	}

	metrics := car.Metrics
	vehicleRows := sheets.Section{
		Name:   "Vehicle",
		Header: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Cost per km", metrics.CostPerKm},
			{"Average consumption L/100km", metrics.AvgFuelConsumption},
			{"Monthly forecast", metrics.MonthlyForecast},
			{"Full tank cost", metrics.FullTankCost},
			{"Range on full tank km", metrics.RangeOnFullTank},
			{"Average fill-up", metrics.AvgFillupCost},
			{"Monthly mileage km", metrics.MonthlyMileage},
			{"Overdue reminders", car.OverdueCount},
		},
	}

	return sheets.Report{
		Title:       "MoneyPilot report " + dash.Date,
		GeneratedAt: r.current(),
		Sections: []sheets.Section{
			summary,
			categorySection("Expenses by category", expenses),
			categorySection("Income by category", income),
			budgets,
			vehicleRows,
		},
	}, nil
}

func categorySection(name string, cs analytics.CategoryStats) sheets.Section {
	s := sheets.Section{Name: name, Header: []string{"Category", "Amount", "Count", "Share %"}}
	for _, st := range cs.Stats {
		s.Rows = append(s.Rows, []any{st.Name, st.Amount, st.Count, st.Percentage})
	}
	return s
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
