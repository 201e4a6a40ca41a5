// Package sheets defines the spreadsheet report surface. The Google
// implementation lives in sheets/google, an in-memory one in sheets/memory.
package sheets

import (
	"context"
	"time"
)

// ReportWriter publishes a report and returns a reference to where it
// was written.
type ReportWriter interface {
	WriteReport(ctx context.Context, r Report) (ref string, err error)
}

// Report is a titled list of tables.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
}

type Section struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Values lays the report out as a cell matrix: title and timestamp first,
// then each section as name, header and rows, separated by an empty row.
func (r Report) Values() [][]any {
	out := [][]any{
		{r.Title},
		{r.GeneratedAt.Format(time.RFC3339)},
	}
	for _, s := range r.Sections {
		out = append(out, []any{}, []any{s.Name})
		if len(s.Header) > 0 {
			header := make([]any, len(s.Header))
			for i, h := range s.Header {
				header[i] = h
			}
			out = append(out, header)
		}
		out = append(out, s.Rows...)
	}
	return out
}

// Width is the widest row of Values.
func (r Report) Width() int {
	w := 1
	for _, row := range r.Values() {
		w = max(w, len(row))
	}
	return w
}
