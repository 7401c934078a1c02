package feed

import (
	"fmt"
	"testing"
	"time"
)

func TestFeed_AppendAndList(t *testing.T) {
	f := New()

	f.Append(RegistrationMessage("iPhone 11"), CategoryRegister)
	f.Append(CollectionMessage("Samsung Smart TV"), CategoryCollect)

	events := f.List()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// Newest first.
	if events[0].Category != CategoryCollect {
		t.Errorf("expected newest event first, got %s", events[0].Category)
	}
	if events[0].Message != "Device collected: Samsung Smart TV" {
		t.Errorf("unexpected message: %q", events[0].Message)
	}
	if events[1].Message != "New device registered: iPhone 11" {
		t.Errorf("unexpected message: %q", events[1].Message)
	}

	for _, ev := range events {
		if ev.ID == "" {
			t.Error("expected generated event ID")
		}
		if ev.Timestamp.IsZero() {
			t.Error("expected event timestamp")
		}
	}
}

func TestFeed_Cap(t *testing.T) {
	f := New()

	// 15 appends must leave exactly the 10 newest, newest first.
	const total = 15
	for i := 0; i < total; i++ {
		f.Append(fmt.Sprintf("event %d", i), CategoryInfo)
	}

	events := f.List()
	if len(events) != MaxEntries {
		t.Fatalf("expected %d events, got %d", MaxEntries, len(events))
	}

	for i, ev := range events {
		want := fmt.Sprintf("event %d", total-1-i)
		if ev.Message != want {
			t.Errorf("position %d: expected %q, got %q", i, want, ev.Message)
		}
	}
}

func TestFeed_OnAppend(t *testing.T) {
	f := New()

	var got []Event
	f.OnAppend(func(ev Event) {
		got = append(got, ev)
	})

	f.Append("hello", CategoryInfo)
	f.Append(RegistrationMessage("Galaxy Tab"), CategoryRegister)

	if len(got) != 2 {
		t.Fatalf("expected 2 listener calls, got %d", len(got))
	}
	if got[1].Category != CategoryRegister {
		t.Errorf("unexpected category: %s", got[1].Category)
	}
}

func TestFeed_FixedClock(t *testing.T) {
	f := New()
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	f.SetClock(func() time.Time { return now })

	ev := f.Append("clock test", CategoryInfo)
	if !ev.Timestamp.Equal(now) {
		t.Errorf("expected timestamp %v, got %v", now, ev.Timestamp)
	}
}

func TestFeed_ListCopies(t *testing.T) {
	f := New()
	f.Append("original", CategoryInfo)

	events := f.List()
	events[0].Message = "mutated"

	if f.List()[0].Message != "original" {
		t.Error("List must return a copy")
	}
}
