package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moneypilot/internal/core"
	"moneypilot/internal/ports"
	"moneypilot/internal/services"
)

type sample struct {
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		maxBytes    int64
		wantErr     string
		want        sample
	}{
		{name: "valid", body: `{"name":"fuel","amount":12.5}`, want: sample{Name: "fuel", Amount: 12.5}},
		{name: "charset suffix", body: `{"name":"a"}`, contentType: "application/json; charset=utf-8", want: sample{Name: "a"}},
		{name: "no content type", body: `{"name":"b"}`, contentType: "-", want: sample{Name: "b"}},
		{name: "empty body", body: ``, wantErr: "request body is empty"},
		{name: "unknown field", body: `{"nmae":"x"}`, wantErr: "unknown field"},
		{name: "trailing data", body: `{"name":"x"}{"name":"y"}`, wantErr: "single JSON object"},
		{name: "form encoded", body: `name=x`, contentType: "application/x-www-form-urlencoded", wantErr: "not application/json"},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", 64) + `"}`, maxBytes: 16, wantErr: "exceeds 16 bytes"},
		{name: "bad amount", body: `{"amount":"-5"}`, wantErr: "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			switch tt.contentType {
			case "":
				r.Header.Set("Content-Type", "application/json")
			case "-":
			default:
				r.Header.Set("Content-Type", tt.contentType)
			}

			var got sample
			err := decodeJSON(httptest.NewRecorder(), r, tt.maxBytes, &got)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.wantErr)
				}
				if !errors.Is(err, ErrBadRequest) {
					t.Errorf("error %v does not wrap ErrBadRequest", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{in: `1200`, want: 1200},
		{in: `12.345`, want: 12.35},
		{in: `"1 234,50"`, want: 1234.5},
		{in: `"0,5"`, want: 0.5},
		{in: `null`, want: 0},
		{in: `0`, wantErr: true},
		{in: `"abc"`, wantErr: true},
		{in: `"-10"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tt.in), &a)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidAmount) {
					t.Errorf("error = %v, want ErrInvalidAmount", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a != tt.want {
				t.Errorf("got %v, want %v", a, tt.want)
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?top=3&bad=x&blank=", nil)

	if n, err := queryInt(r, "top", 0); err != nil || n != 3 {
		t.Errorf("top = %d, %v; want 3", n, err)
	}
	if n, err := queryInt(r, "missing", 7); err != nil || n != 7 {
		t.Errorf("missing = %d, %v; want default 7", n, err)
	}
	if n, err := queryInt(r, "blank", 7); err != nil || n != 7 {
		t.Errorf("blank = %d, %v; want default 7", n, err)
	}
	if _, err := queryInt(r, "bad", 0); !errors.Is(err, ErrBadRequest) {
		t.Errorf("bad = %v, want ErrBadRequest", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Такси  ", "Такси"},
		{"a\x00b\x07c", "abc"},
		{"line\nbreak\ttab", "line\nbreak\ttab"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{badRequest("x"), http.StatusBadRequest},
		{fmt.Errorf("%w: %w", services.ErrValidation, core.ErrInvalidAmount), http.StatusBadRequest},
		{fmt.Errorf("get reminder: %w", ports.ErrNotFound), http.StatusNotFound},
		{services.ErrExportDisabled, http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
