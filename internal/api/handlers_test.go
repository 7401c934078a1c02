package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecorecicle/ecorecicle-core/internal/collectionpoint"
	"github.com/ecorecicle/ecorecicle-core/internal/feed"
)

func TestHealth(t *testing.T) {
	_, handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	decodeBody(t, rec, &resp)

	if resp.Status != "ok" {
		t.Errorf("status = %q, want %q", resp.Status, "ok")
	}
	if resp.Version != "test" {
		t.Errorf("version = %q, want %q", resp.Version, "test")
	}
}

func TestListNotifications(t *testing.T) {
	_, handler, f, _ := newTestServer(t)

	f.Append("primeiro", feed.CategoryInfo)
	f.Append("segundo", feed.CategoryInfo)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/notifications", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Notifications []feed.Event `json:"notifications"`
		Count         int          `json:"count"`
	}
	decodeBody(t, rec, &resp)

	if resp.Count != 2 {
		t.Fatalf("count = %d, want 2", resp.Count)
	}
	// Newest first.
	if resp.Notifications[0].Message != "segundo" {
		t.Errorf("newest message = %q, want %q", resp.Notifications[0].Message, "segundo")
	}
}

func TestListCollectionPoints(t *testing.T) {
	_, handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/collection-points", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp struct {
		Points []collectionpoint.Point `json:"points"`
		Count  int                     `json:"count"`
	}
	decodeBody(t, rec, &resp)

	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Points[0].ID != "cp-centro" {
		t.Errorf("point ID = %q, want %q", resp.Points[0].ID, "cp-centro")
	}
	if len(resp.Points[0].AcceptedTypes) != 2 {
		t.Errorf("accepted types = %v, want 2 entries", resp.Points[0].AcceptedTypes)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, handler, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/devices", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want %q", got, "*")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	_, handler, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "abc-123")
	}
}

func TestRequestIDGenerated(t *testing.T) {
	_, handler, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestNewValidation(t *testing.T) {
	srv, _, f, store := newTestServer(t)
	if srv == nil {
		t.Fatal("newTestServer returned nil server")
	}

	if _, err := New(Deps{Feed: f, Store: store}); err == nil {
		t.Error("New() without logger should fail")
	}
	if _, err := New(Deps{Logger: srv.logger, Feed: f}); err == nil {
		t.Error("New() without store should fail")
	}
	if _, err := New(Deps{Logger: srv.logger, Store: store}); err == nil {
		t.Error("New() without feed should fail")
	}
}
