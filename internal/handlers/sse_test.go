package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func sseRequest(signals string) *http.Request {
	target := "/sse/dashboard"
	if signals != "" {
		target += "?datastar=" + url.QueryEscape(signals)
	}
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestNewSSEHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	logger := testLogger()

	handlers := NewSSEHandlers(analytics, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewSSEHandlers() should set analytics field")
	}
	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	tests := []struct {
		name    string
		signals string
		want    []string
		notWant []string
	}{
		{
			name: "no signals selects everything",
			want: []string{"US $ 200", "4 transactions", `"cities":["Yangon","Naypyitaw","Mandalay"]`},
		},
		{
			name:    "one city",
			signals: `{"cities":["Yangon"],"customerTypes":null}`,
			want:    []string{"US $ 130", "2 transactions", `"customerTypes":["Member","Normal"]`},
			notWant: []string{"No data for the current filters"},
		},
		{
			name:    "empty array selects nothing",
			signals: `{"genders":[]}`,
			want:    []string{"No data for the current filters", "US $ 0", "0 transactions", `"genders":[]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handlers.HandleDashboard(w, sseRequest(tt.signals))

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
				t.Errorf("expected event stream, got %q", ct)
			}

			body := w.Body.String()
			if n := strings.Count(body, "event: datastar-patch-elements"); n != 3 {
				t.Errorf("expected 3 element patches, got %d", n)
			}
			if !strings.Contains(body, "event: datastar-patch-signals") {
				t.Error("expected a signals patch")
			}
			for _, id := range []string{`id="kpis"`, `id="charts"`, `id="transactions"`} {
				if !strings.Contains(body, id) {
					t.Errorf("missing fragment %s", id)
				}
			}
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("expected body to contain %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(body, s) {
					t.Errorf("body should not contain %q", s)
				}
			}
		})
	}
}

func TestSSEHandlers_HandleDashboard_BadSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	tests := []struct {
		name       string
		signals    string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"cities":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown city", `{"cities":["Paris"]}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handlers.HandleDashboard(w, sseRequest(tt.signals))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantCode) {
				t.Errorf("expected error code %s in %s", tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestPageHandlers_HandleDashboard(t *testing.T) {
	handlers := NewPageHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/?city=Yangon", nil)
	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type = %q", ct)
	}

	body := w.Body.String()
	for _, s := range []string{"<title>Sales Dashboard</title>", "US $ 130", `<option value="Mandalay">`} {
		if !strings.Contains(body, s) {
			t.Errorf("expected page to contain %q", s)
		}
	}
}

func TestPageHandlers_HandleDashboard_UnknownValue(t *testing.T) {
	handlers := NewPageHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/?gender=Other", nil)
	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
