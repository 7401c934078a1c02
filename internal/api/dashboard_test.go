package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ecorecicle/ecorecicle-core/internal/device"
	"github.com/ecorecicle/ecorecicle-core/internal/feed"
	"github.com/ecorecicle/ecorecicle-core/internal/metrics"
)

func TestDashboardMetrics_Empty(t *testing.T) {
	_, handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/dashboard/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var snap metrics.Snapshot
	decodeBody(t, rec, &snap)

	if snap.RegisteredCount != 0 || snap.CollectedCount != 0 {
		t.Errorf("counts = %d/%d, want 0/0", snap.RegisteredCount, snap.CollectedCount)
	}
	if len(snap.CountsByType) != 0 {
		t.Errorf("CountsByType has %d entries, want 0", len(snap.CountsByType))
	}
	if snap.MonthlySeries[0].Month != "Jan" || snap.MonthlySeries[11].Month != "Dec" {
		t.Errorf("month labels = %q ... %q", snap.MonthlySeries[0].Month, snap.MonthlySeries[11].Month)
	}
}

// TestDashboardMetrics_RegisterThenCollect walks the full flow the
// dashboard exercises: registering a device bumps the registered
// count, collecting it bumps the collected count, and the newest
// notification reports the collection.
func TestDashboardMetrics_RegisterThenCollect(t *testing.T) {
	_, handler, f, _ := newTestServer(t)

	created := doJSON(t, handler, http.MethodPost, "/api/v1/devices", registerDeviceRequest{
		Name: "iPhone 11",
		Type: "smartphone",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("register: status = %d", created.Code)
	}
	var rec device.Record
	decodeBody(t, created, &rec)

	resp := doJSON(t, handler, http.MethodGet, "/api/v1/dashboard/metrics", nil)
	var snap metrics.Snapshot
	decodeBody(t, resp, &snap)

	if snap.RegisteredCount != 1 {
		t.Errorf("RegisteredCount = %d, want 1", snap.RegisteredCount)
	}
	if snap.CollectedCount != 0 {
		t.Errorf("CollectedCount = %d, want 0", snap.CollectedCount)
	}
	if snap.CountsByType[device.DeviceTypeSmartphone] != 1 {
		t.Errorf("CountsByType[smartphone] = %d, want 1", snap.CountsByType[device.DeviceTypeSmartphone])
	}

	collect := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/devices/%s/collect", rec.ID), nil)
	if collect.Code != http.StatusOK {
		t.Fatalf("collect: status = %d", collect.Code)
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/dashboard/metrics", nil)
	snap = metrics.Snapshot{}
	decodeBody(t, resp, &snap)

	if snap.RegisteredCount != 1 {
		t.Errorf("RegisteredCount after collect = %d, want 1", snap.RegisteredCount)
	}
	if snap.CollectedCount != 1 {
		t.Errorf("CollectedCount after collect = %d, want 1", snap.CollectedCount)
	}

	events := f.List()
	if len(events) == 0 {
		t.Fatal("feed is empty")
	}
	if events[0].Category != feed.CategoryCollect {
		t.Errorf("newest feed category = %q, want %q", events[0].Category, feed.CategoryCollect)
	}
}
