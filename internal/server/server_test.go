package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testServer() *Server {
	table := dataset.NewTable([]models.Transaction{
		{City: "Yangon", CustomerType: "Member", Gender: "Female", ProductLine: "Health and beauty",
			Total: decimal.RequireFromString("100"), Rating: 8, Time: "10:00:00", Hour: 10},
		{City: "Naypyitaw", CustomerType: "Normal", Gender: "Male", ProductLine: "Sports and travel",
			Total: decimal.RequireFromString("50"), Rating: 6, Time: "18:00:00", Hour: 18},
	})
	return NewServer(services.NewAnalytics(table, testLogger()), testLogger())
}

func TestServer_Routes(t *testing.T) {
	srv := testServer()

	tests := []struct {
		path        string
		wantStatus  int
		contentType string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/?city=Yangon", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/filters", http.StatusOK, "application/json"},
		{"/api/summary?gender=Male", http.StatusOK, "application/json"},
		{"/api/transactions", http.StatusOK, "application/json"},
		{"/api/charts/hourly", http.StatusOK, "application/json"},
		{"/api/charts/radar", http.StatusNotFound, "application/json"},
		{"/charts/products.svg", http.StatusOK, "image/svg+xml"},
		{"/sse/dashboard", http.StatusOK, "text/event-stream"},
		{"/favicon.ico", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("GET %s: expected status %d, got %d", tt.path, tt.wantStatus, w.Code)
			}
			if tt.contentType != "" && !strings.HasPrefix(w.Header().Get("Content-Type"), tt.contentType) {
				t.Errorf("GET %s: content-type = %q, want %s", tt.path, w.Header().Get("Content-Type"), tt.contentType)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodPost, "/api/summary", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{ShutdownTimeout: 5 * time.Second},
	}
}

func TestGracefulServer_ShutdownRunsHooks(t *testing.T) {
	gs := NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, testLogger(), testConfig())

	var calls atomic.Int32
	for range 3 {
		gs.RegisterShutdownHook(func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})
	}

	if err := gs.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("hooks called %d times, want 3", calls.Load())
	}
}

func TestGracefulServer_ShutdownHookError(t *testing.T) {
	gs := NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, testLogger(), testConfig())

	boom := errors.New("boom")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return nil })
	gs.RegisterShutdownHook(func(ctx context.Context) error { return boom })

	err := gs.Shutdown(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Shutdown() error = %v, want %v", err, boom)
	}
}

func TestGracefulServer_ShutdownTimeout(t *testing.T) {
	gs := NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, testLogger(), testConfig())

	release := make(chan struct{})
	defer close(release)
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := gs.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want deadline exceeded", err)
	}
}
