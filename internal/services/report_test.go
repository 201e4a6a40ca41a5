package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneypilot/internal/memory"
	"moneypilot/internal/sheets"
	sheetsmem "moneypilot/internal/sheets/memory"
)

type brokenWriter struct{}

func (brokenWriter) WriteReport(context.Context, sheets.Report) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestReports_Export(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: testNow}
	insights := newInsights(memory.New(financeSeed()), c)
	writer := sheetsmem.New()
	r := NewReports(insights, writer, quietLogger(), testOptions(c)...)

	require.True(t, r.Enabled())
	ref, err := r.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "mem:1", ref)

	reports := writer.Reports()
	require.Len(t, reports, 1)
	rep := reports[0]
	assert.Equal(t, "MoneyPilot report 2024-03-13", rep.Title)
	assert.Equal(t, testNow, rep.GeneratedAt)
	require.Len(t, rep.Sections, 5)
	assert.Equal(t, "Summary", rep.Sections[0].Name)
	assert.Equal(t, []any{"Total income", 50000.0}, rep.Sections[0].Rows[0])
	assert.Len(t, rep.Sections[1].Rows, 3, "every expense category, not only the top ones")
	assert.Equal(t, []any{"Еда", 1500.0, 10000.0, 15.0, "on-track"}, rep.Sections[3].Rows[0])
}

func TestReports_ExportDisabled(t *testing.T) {
	r := NewReports(newInsights(memory.New(financeSeed()), &clock{t: testNow}), nil, quietLogger())

	assert.False(t, r.Enabled())
	_, err := r.Export(context.Background())
	assert.ErrorIs(t, err, ErrExportDisabled)
}

func TestReports_ExportWriterError(t *testing.T) {
	r := NewReports(newInsights(memory.New(financeSeed()), &clock{t: testNow}), brokenWriter{}, quietLogger())

	_, err := r.Export(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
