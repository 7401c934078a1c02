package device

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "iPhone 11", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"max length", strings.Repeat("a", 100), false},
		{"too long", strings.Repeat("a", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidName) {
				t.Errorf("expected ErrInvalidName, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateType(t *testing.T) {
	for _, dt := range AllDeviceTypes() {
		if err := ValidateType(dt); err != nil {
			t.Errorf("ValidateType(%s) failed: %v", dt, err)
		}
	}
	if err := ValidateType(DeviceType("fridge")); !errors.Is(err, ErrInvalidDeviceType) {
		t.Errorf("expected ErrInvalidDeviceType, got %v", err)
	}
}

func TestValidateRecord_Invariant(t *testing.T) {
	registeredAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	after := registeredAt.Add(time.Hour)
	before := registeredAt.Add(-time.Hour)

	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr bool
	}{
		{"valid registered", func(*Record) {}, false},
		{
			"valid collected",
			func(r *Record) {
				r.Status = StatusCollected
				r.CollectedAt = &after
			},
			false,
		},
		{
			"collected without timestamp",
			func(r *Record) { r.Status = StatusCollected },
			true,
		},
		{
			"registered with timestamp",
			func(r *Record) { r.CollectedAt = &after },
			true,
		},
		{
			"collected before registered",
			func(r *Record) {
				r.Status = StatusCollected
				r.CollectedAt = &before
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Record{
				ID:           GenerateID(),
				Name:         "iPhone 11",
				Type:         DeviceTypeSmartphone,
				Status:       StatusRegistered,
				RegisteredAt: registeredAt,
			}
			tt.mutate(rec)

			err := ValidateRecord(rec)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRecord_Clone(t *testing.T) {
	ts := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	collected := ts.Add(time.Hour)
	rec := &Record{
		ID:           "abc",
		Name:         "Dell XPS 13",
		Type:         DeviceTypeLaptop,
		Status:       StatusCollected,
		RegisteredAt: ts,
		CollectedAt:  &collected,
	}

	cpy := rec.Clone()
	later := collected.Add(time.Hour)
	cpy.CollectedAt = &later
	cpy.Name = "changed"

	if rec.Name != "Dell XPS 13" || !rec.CollectedAt.Equal(collected) {
		t.Error("mutating the clone must not affect the original")
	}
}
