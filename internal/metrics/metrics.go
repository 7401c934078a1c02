// Package metrics derives dashboard statistics from device records.
//
// Aggregation is a pure function over a record snapshot: it holds no
// state of its own and is recomputed whenever the device store changes.
package metrics

import (
	"time"

	"github.com/ecorecicle/ecorecicle-core/internal/device"
)

// monthsPerYear is the number of buckets in the monthly series.
const monthsPerYear = 12

// MonthBucket holds per-calendar-month registration and collection counts.
type MonthBucket struct {
	Month      string `json:"month"`
	Registered int    `json:"registered"`
	Collected  int    `json:"collected"`
}

// Snapshot is the derived dashboard state for one point in time.
// It is never mutated independently; callers recompute it from the
// current record set.
type Snapshot struct {
	// RegisteredCount is the total number of records ever registered.
	RegisteredCount int `json:"registeredCount"`

	// CollectedCount is the number of records already collected.
	CollectedCount int `json:"collectedCount"`

	// CountsByType maps device type to the number of records of that
	// type. Types with zero occurrences are omitted.
	CountsByType map[device.DeviceType]int `json:"countsByType"`

	// MonthlySeries holds one bucket per calendar month, January first.
	// Records from different years fall into the same bucket: the series
	// is keyed by month only, matching the chart the dashboard draws.
	MonthlySeries [monthsPerYear]MonthBucket `json:"monthlySeries"`
}

// Compute aggregates a record snapshot into a Snapshot.
// An empty input yields all-zero counts and an empty type map.
func Compute(records []device.Record) Snapshot {
	snap := Snapshot{
		RegisteredCount: len(records),
		CountsByType:    make(map[device.DeviceType]int),
	}
	for i := range snap.MonthlySeries {
		snap.MonthlySeries[i].Month = time.Month(i + 1).String()[:3]
	}

	for i := range records {
		rec := &records[i]
		snap.CountsByType[rec.Type]++

		snap.MonthlySeries[int(rec.RegisteredAt.Month())-1].Registered++

		if rec.Status == device.StatusCollected {
			snap.CollectedCount++
			if rec.CollectedAt != nil {
				snap.MonthlySeries[int(rec.CollectedAt.Month())-1].Collected++
			}
		}
	}

	return snap
}
