package device

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Store.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeKind identifies the lifecycle transition a ChangeEvent describes.
type ChangeKind string

// ChangeKind constants.
const (
	ChangeRegistered ChangeKind = "registered"
	ChangeCollected  ChangeKind = "collected"
)

// ChangeEvent is delivered to listeners after a successful mutation.
// The embedded Record is a copy; listeners may retain it.
type ChangeEvent struct {
	Kind   ChangeKind
	Record Record
}

// ChangeListener receives store change events. Listeners are invoked
// synchronously after the mutation completes and the store lock is
// released; they must not call back into mutating Store methods.
type ChangeListener func(ChangeEvent)

// Store is the authoritative set of device records.
//
// It wraps a Repository and maintains an in-memory cache in insertion
// order for fast reads. Every successful Register/Collect persists
// synchronously before returning, so a restart observes the last
// successful write.
//
// All public methods are safe for concurrent use.
type Store struct {
	repo   Repository
	logger Logger
	now    func() time.Time

	mu      sync.RWMutex
	records []*Record      // insertion order
	index   map[string]int // id -> position in records

	listenerMu sync.RWMutex
	listeners  []ChangeListener
}

// NewStore creates a new device record store.
// The repository is used for persistence; the store adds the ordered cache.
func NewStore(repo Repository) *Store {
	return &Store{
		repo:   repo,
		logger: noopLogger{},
		now:    time.Now,
		index:  make(map[string]int),
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// SetClock overrides the time source. Used by tests and the simulation
// driver to control timestamps.
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// OnChange registers a listener for record lifecycle transitions.
func (s *Store) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	s.listenerMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenerMu.Unlock()
}

// RefreshCache reloads all records from the repository into the cache.
// This should be called on application startup.
func (s *Store) RefreshCache(ctx context.Context) error {
	records, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading devices: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]*Record, 0, len(records))
	s.index = make(map[string]int, len(records))
	for i := range records {
		rec := records[i]
		s.records = append(s.records, rec.Clone())
		s.index[rec.ID] = len(s.records) - 1
	}

	s.logger.Info("device cache refreshed", "count", len(records))
	return nil
}

// Register creates a new record with status registered and persists it.
//
// It fails with ErrInvalidName / ErrInvalidDeviceType before any state
// changes. If the durable write fails, the record is kept in the
// in-memory cache for the current session and the storage error is
// returned; the caller decides whether to surface or retry.
func (s *Store) Register(ctx context.Context, name string, deviceType DeviceType) (*Record, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateType(deviceType); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:           GenerateID(),
		Name:         name,
		Type:         deviceType,
		Status:       StatusRegistered,
		RegisteredAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.index[rec.ID] = len(s.records) - 1
	persistErr := s.repo.Create(ctx, rec)
	s.mu.Unlock()

	if persistErr != nil {
		s.logger.Error("device registered but not persisted", "id", rec.ID, "error", persistErr)
		return rec.Clone(), fmt.Errorf("persisting device: %w", persistErr)
	}

	s.logger.Info("device registered", "id", rec.ID, "name", rec.Name, "type", rec.Type)
	s.notify(ChangeEvent{Kind: ChangeRegistered, Record: *rec.Clone()})
	return rec.Clone(), nil
}

// Collect transitions a record to collected status.
//
// Collecting an already-collected record is a no-op that returns the
// existing record; the transition is terminal and idempotent. Unknown
// ids return ErrDeviceNotFound with the store unchanged. Storage
// failures follow the same keep-in-memory policy as Register.
func (s *Store) Collect(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	pos, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrDeviceNotFound
	}

	rec := s.records[pos]
	if rec.Status == StatusCollected {
		out := rec.Clone()
		s.mu.Unlock()
		s.logger.Debug("device already collected", "id", id)
		return out, nil
	}

	collectedAt := s.now().UTC()
	if collectedAt.Before(rec.RegisteredAt) {
		// Clock skew guard: collected_at never precedes registered_at.
		collectedAt = rec.RegisteredAt
	}
	rec.Status = StatusCollected
	rec.CollectedAt = &collectedAt

	persistErr := s.repo.MarkCollected(ctx, id, collectedAt)
	out := rec.Clone()
	s.mu.Unlock()

	if persistErr != nil {
		s.logger.Error("device collected but not persisted", "id", id, "error", persistErr)
		return out, fmt.Errorf("persisting collection: %w", persistErr)
	}

	s.logger.Info("device collected", "id", id, "name", out.Name)
	s.notify(ChangeEvent{Kind: ChangeCollected, Record: *out.Clone()})
	return out, nil
}

// List returns all records in insertion order.
// The returned records are copies; callers can safely modify them.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, *rec.Clone())
	}
	return records, nil
}

// ListRegistered returns all records still awaiting collection, in
// insertion order. Used by the simulation driver to pick collection
// candidates from the live set.
func (s *Store) ListRegistered(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []Record
	for _, rec := range s.records {
		if rec.Status == StatusRegistered {
			records = append(records, *rec.Clone())
		}
	}
	return records, nil
}

// Get retrieves a record by ID.
// Returns ErrDeviceNotFound if the record does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	pos, ok := s.index[id]
	if ok {
		out := s.records[pos].Clone()
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	// Fall back to the repository (the cache may not have been refreshed).
	return s.repo.GetByID(ctx, id)
}

// Count returns the number of cached records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// notify delivers a change event to all registered listeners.
func (s *Store) notify(ev ChangeEvent) {
	s.listenerMu.RLock()
	listeners := make([]ChangeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
