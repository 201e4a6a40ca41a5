// Package memory keeps written reports in process, for tests and for
// running without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"moneypilot/internal/sheets"
)

var _ sheets.ReportWriter = (*Writer)(nil)

type Writer struct {
	mu      sync.Mutex
	reports []sheets.Report
}

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteReport(_ context.Context, r sheets.Report) (string, error) {
	if len(r.Sections) == 0 {
		return "", fmt.Errorf("report %q has no sections", r.Title)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, r)
	return fmt.Sprintf("mem:%d", len(w.reports)), nil
}

// Reports returns a copy of everything written so far.
func (w *Writer) Reports() []sheets.Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]sheets.Report(nil), w.reports...)
}
