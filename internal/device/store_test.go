package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// MockRepository is a test implementation of Repository.
type MockRepository struct {
	mu      sync.Mutex
	records map[string]*Record
	order   []string
	// For testing error paths
	createErr  error
	collectErr error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		records: make(map[string]*Record),
	}
}

func (m *MockRepository) GetByID(_ context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.records[id]; ok {
		return r.Clone(), nil
	}
	return nil, ErrDeviceNotFound
}

func (m *MockRepository) List(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]Record, 0, len(m.order))
	for _, id := range m.order {
		records = append(records, *m.records[id].Clone())
	}
	return records, nil
}

func (m *MockRepository) ListByStatus(_ context.Context, status Status) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []Record
	for _, id := range m.order {
		if m.records[id].Status == status {
			records = append(records, *m.records[id].Clone())
		}
	}
	return records, nil
}

func (m *MockRepository) Create(_ context.Context, record *Record) error {
	if m.createErr != nil {
		return m.createErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.ID]; exists {
		return ErrDeviceExists
	}

	m.records[record.ID] = record.Clone()
	m.order = append(m.order, record.ID)
	return nil
}

func (m *MockRepository) MarkCollected(_ context.Context, id string, collectedAt time.Time) error {
	if m.collectErr != nil {
		return m.collectErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return ErrDeviceNotFound
	}
	t := collectedAt
	r.Status = StatusCollected
	r.CollectedAt = &t
	return nil
}

func TestStore_Register(t *testing.T) {
	repo := NewMockRepository()
	store := NewStore(repo)
	ctx := context.Background()

	names := []string{"iPhone 11", "Dell XPS 13", "Samsung Smart TV"}
	types := []DeviceType{DeviceTypeSmartphone, DeviceTypeLaptop, DeviceTypeTV}

	for i, name := range names {
		rec, err := store.Register(ctx, name, types[i])
		if err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
		if rec.ID == "" {
			t.Error("expected generated ID")
		}
		if rec.Status != StatusRegistered {
			t.Errorf("expected status registered, got %s", rec.Status)
		}
		if rec.CollectedAt != nil {
			t.Error("expected nil CollectedAt on registration")
		}
		if rec.RegisteredAt.IsZero() {
			t.Error("expected RegisteredAt to be set")
		}
	}

	// list() returns exactly the registered records in call order.
	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != len(names) {
		t.Fatalf("expected %d records, got %d", len(names), len(records))
	}
	for i, rec := range records {
		if rec.Name != names[i] {
			t.Errorf("position %d: expected %q, got %q", i, names[i], rec.Name)
		}
		if rec.Status != StatusRegistered {
			t.Errorf("position %d: expected registered, got %s", i, rec.Status)
		}
	}
}

func TestStore_Register_Validation(t *testing.T) {
	tests := []struct {
		name       string
		deviceName string
		deviceType DeviceType
		wantErr    error
	}{
		{"empty name", "", DeviceTypeSmartphone, ErrInvalidName},
		{"whitespace name", "   ", DeviceTypeSmartphone, ErrInvalidName},
		{"unknown type", "iPhone 11", DeviceType("toaster"), ErrInvalidDeviceType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(NewMockRepository())
			_, err := store.Register(context.Background(), tt.deviceName, tt.deviceType)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if store.Count() != 0 {
				t.Error("failed registration must not mutate the store")
			}
		})
	}
}

func TestStore_Collect(t *testing.T) {
	store := NewStore(NewMockRepository())
	ctx := context.Background()

	rec, err := store.Register(ctx, "iPhone 11", DeviceTypeSmartphone)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	collected, err := store.Collect(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if collected.Status != StatusCollected {
		t.Errorf("expected status collected, got %s", collected.Status)
	}
	if collected.CollectedAt == nil {
		t.Fatal("expected CollectedAt to be set")
	}
	if collected.CollectedAt.Before(collected.RegisteredAt) {
		t.Error("CollectedAt must not precede RegisteredAt")
	}
}

func TestStore_Collect_Idempotent(t *testing.T) {
	store := NewStore(NewMockRepository())
	ctx := context.Background()

	var events []ChangeEvent
	store.OnChange(func(ev ChangeEvent) {
		events = append(events, ev)
	})

	rec, err := store.Register(ctx, "Impressora HP", DeviceTypePrinter)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	first, err := store.Collect(ctx, rec.ID)
	if err != nil {
		t.Fatalf("first Collect failed: %v", err)
	}

	// Re-collecting is a no-op returning the existing record.
	second, err := store.Collect(ctx, rec.ID)
	if err != nil {
		t.Fatalf("second Collect failed: %v", err)
	}
	if !second.CollectedAt.Equal(*first.CollectedAt) {
		t.Error("re-collect must not update CollectedAt")
	}

	// One register event and one collect event; no event for the no-op.
	if len(events) != 2 {
		t.Fatalf("expected 2 change events, got %d", len(events))
	}
	if events[0].Kind != ChangeRegistered || events[1].Kind != ChangeCollected {
		t.Errorf("unexpected event kinds: %v, %v", events[0].Kind, events[1].Kind)
	}
}

func TestStore_Collect_NotFound(t *testing.T) {
	store := NewStore(NewMockRepository())
	ctx := context.Background()

	if _, err := store.Register(ctx, "Galaxy Tab", DeviceTypeTablet); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	before, _ := store.List(ctx)

	_, err := store.Collect(ctx, "no-such-id")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("expected ErrDeviceNotFound, got %v", err)
	}

	after, _ := store.List(ctx)
	if len(after) != len(before) || after[0].Status != before[0].Status {
		t.Error("failed Collect must leave the store unchanged")
	}
}

func TestStore_StorageFailureKeepsMemoryState(t *testing.T) {
	repo := NewMockRepository()
	repo.createErr = fmt.Errorf("disk full")
	store := NewStore(repo)
	ctx := context.Background()

	rec, err := store.Register(ctx, "iPhone 11", DeviceTypeSmartphone)
	if err == nil {
		t.Fatal("expected storage error")
	}
	if rec == nil {
		t.Fatal("record must still be returned on storage failure")
	}

	// The record remains valid for the current session.
	records, _ := store.List(ctx)
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Error("in-memory state must be kept when persistence fails")
	}
}

func TestStore_RefreshCache(t *testing.T) {
	repo := NewMockRepository()
	seeded := &Record{
		ID:           GenerateID(),
		Name:         "Samsung Smart TV",
		Type:         DeviceTypeTV,
		Status:       StatusRegistered,
		RegisteredAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	if err := repo.Create(context.Background(), seeded); err != nil {
		t.Fatalf("seeding repo failed: %v", err)
	}

	store := NewStore(repo)
	if err := store.RefreshCache(context.Background()); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}

	records, _ := store.List(context.Background())
	if len(records) != 1 || records[0].ID != seeded.ID {
		t.Fatalf("expected seeded record after refresh, got %d records", len(records))
	}
}

func TestStore_ListRegistered(t *testing.T) {
	store := NewStore(NewMockRepository())
	ctx := context.Background()

	a, _ := store.Register(ctx, "iPhone 11", DeviceTypeSmartphone)
	b, _ := store.Register(ctx, "Dell XPS 13", DeviceTypeLaptop)
	if _, err := store.Collect(ctx, a.ID); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	registered, err := store.ListRegistered(ctx)
	if err != nil {
		t.Fatalf("ListRegistered failed: %v", err)
	}
	if len(registered) != 1 || registered[0].ID != b.ID {
		t.Fatalf("expected only the uncollected record, got %d", len(registered))
	}
}

func TestStore_FixedClock(t *testing.T) {
	store := NewStore(NewMockRepository())
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	rec, err := store.Register(context.Background(), "Impressora HP", DeviceTypePrinter)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !rec.RegisteredAt.Equal(now) {
		t.Errorf("expected RegisteredAt %v, got %v", now, rec.RegisteredAt)
	}
}
