package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func probeRequest(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(Config{ServiceName: "hellraiser", Version: "1.2.3", Commit: "abc1234"})

	rec := probeRequest(t, srv, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != "ok" || body.Service != "hellraiser" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Version != "1.2.3" || body.Commit != "abc1234" {
		t.Fatalf("build identity missing: %+v", body)
	}
}

func TestReadyReflectsReadiness(t *testing.T) {
	srv := NewServer(Config{ServiceName: "hellraiser"})

	rec := probeRequest(t, srv, "/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before SetReady, got %d", rec.Code)
	}

	srv.SetReady(true)
	rec = probeRequest(t, srv, "/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after SetReady, got %d", rec.Code)
	}
}

func TestReadyChecksDatabase(t *testing.T) {
	srv := NewServer(Config{ServiceName: "hellraiser", DB: stubPinger{}})
	srv.SetReady(true)

	rec := probeRequest(t, srv, "/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with healthy database, got %d", rec.Code)
	}

	var body ReadinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Checks["database"] != "ok" {
		t.Fatalf("expected database check ok, got %q", body.Checks["database"])
	}

	broken := NewServer(Config{ServiceName: "hellraiser", DB: stubPinger{err: errors.New("connection refused")}})
	broken.SetReady(true)

	rec = probeRequest(t, broken, "/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with broken database, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(Config{ServiceName: "hellraiser"})

	rec := probeRequest(t, srv, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics scrape, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected metric exposition in the body")
	}
}
