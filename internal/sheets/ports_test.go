package sheets

import (
	"testing"
	"time"
)

func TestReportValues(t *testing.T) {
	r := Report{
		Title:       "MoneyPilot",
		GeneratedAt: time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC),
		Sections: []Section{
			{Name: "Categories", Header: []string{"Category", "Amount", "Share"}, Rows: [][]any{{"Еда", 1200.0, 60.0}, {"Транспорт", 800.0, 40.0}}},
			{Name: "Vehicle", Rows: [][]any{{"costPerKm", 11.3}}},
		},
	}

	v := r.Values()

	want := 2 + (2 + 1 + 2) + (2 + 1)
	if len(v) != want {
		t.Fatalf("rows = %d, want %d", len(v), want)
	}
	if v[0][0] != "MoneyPilot" || v[1][0] != "2024-03-13T12:00:00Z" {
		t.Errorf("unexpected heading rows: %v", v[:2])
	}
	if len(v[2]) != 0 || v[3][0] != "Categories" || v[4][0] != "Category" {
		t.Errorf("unexpected section layout: %v", v[2:5])
	}
	if r.Width() != 3 {
		t.Errorf("Width() = %d, want 3", r.Width())
	}
}
