package google

import (
	"os"
	"path/filepath"
	"testing"

	gsheet "google.golang.org/api/sheets/v4"
)

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"Report", "2024 Report"},
		{"  Report ", "2024 Report"},
		{"2023 Report", "2023 Report"},
		{"", ""},
		{"12345", "2024 12345"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			if got := yearPrefixedName(tt.base, 2024); got != tt.want {
				t.Errorf("yearPrefixedName(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "A"},
		{1, "A"},
		{3, "C"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		if got := columnName(tt.n); got != tt.want {
			t.Errorf("columnName(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("2024 Bob's"); got != "'2024 Bob''s'" {
		t.Errorf("quoteSheet = %q", got)
	}
}

func TestHasSheet(t *testing.T) {
	ss := &gsheet.Spreadsheet{Sheets: []*gsheet.Sheet{
		{Properties: &gsheet.SheetProperties{Title: "2024 Report"}},
		{},
	}}
	if !hasSheet(ss, "2024 Report") || hasSheet(ss, "2025 Report") {
		t.Error("hasSheet mismatch")
	}
}

func TestCredentialsJSON(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := credentialsJSON(Credentials{}); err == nil {
		t.Error("expected error without credentials")
	}

	got, err := credentialsJSON(Credentials{JSON: ` {"type":"service_account"} `, File: "/ignored"})
	if err != nil || string(got) != `{"type":"service_account"}` {
		t.Errorf("inline json = %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"k":1}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
	got, err = credentialsJSON(Credentials{})
	if err != nil || string(got) != `{"k":1}` {
		t.Errorf("ADC file = %q, %v", got, err)
	}

	if _, err := credentialsJSON(Credentials{File: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("expected error for missing file")
	}
}
