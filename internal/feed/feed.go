// Package feed provides the bounded notification log shown on the
// dashboard's live activity panel.
//
// The feed keeps at most the ten newest events, newest first. It is
// ephemeral: events live for the current session only and are not
// persisted.
package feed

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxEntries is the feed capacity. Appends beyond it silently drop the
// oldest entries.
const MaxEntries = 10

// Category classifies a notification event.
type Category string

// Category constants.
const (
	CategoryRegister Category = "register"
	CategoryCollect  Category = "collect"
	CategoryInfo     Category = "info"
)

// Event is one human-readable entry in the notification feed.
type Event struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Category  Category  `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// AppendListener is invoked synchronously after each append, outside
// the feed lock.
type AppendListener func(Event)

// Feed is a bounded, most-recent-first event log.
// All methods are safe for concurrent use.
type Feed struct {
	mu     sync.RWMutex
	events []Event // newest first
	now    func() time.Time

	listenerMu sync.RWMutex
	listeners  []AppendListener
}

// New creates an empty feed.
func New() *Feed {
	return &Feed{now: time.Now}
}

// SetClock overrides the time source; used by tests.
func (f *Feed) SetClock(now func() time.Time) {
	if now != nil {
		f.now = now
	}
}

// OnAppend registers a listener for new events.
func (f *Feed) OnAppend(fn AppendListener) {
	if fn == nil {
		return
	}
	f.listenerMu.Lock()
	f.listeners = append(f.listeners, fn)
	f.listenerMu.Unlock()
}

// Append prepends a new event and truncates the feed to MaxEntries.
func (f *Feed) Append(message string, category Category) Event {
	ev := Event{
		ID:        uuid.New().String(),
		Message:   message,
		Category:  category,
		Timestamp: f.now().UTC(),
	}

	f.mu.Lock()
	f.events = append([]Event{ev}, f.events...)
	if len(f.events) > MaxEntries {
		f.events = f.events[:MaxEntries]
	}
	f.mu.Unlock()

	f.notify(ev)
	return ev
}

// List returns the current events, newest first.
// The returned slice is a copy; callers can safely retain it.
func (f *Feed) List() []Event {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

// Len returns the number of events currently held.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.events)
}

func (f *Feed) notify(ev Event) {
	f.listenerMu.RLock()
	listeners := make([]AppendListener, len(f.listeners))
	copy(listeners, f.listeners)
	f.listenerMu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// RegistrationMessage builds the feed message for a newly registered device.
func RegistrationMessage(name string) string {
	return fmt.Sprintf("New device registered: %s", name)
}

// CollectionMessage builds the feed message for a collected device.
func CollectionMessage(name string) string {
	return fmt.Sprintf("Device collected: %s", name)
}
