package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSubscribersRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	subs := map[string]struct{}{
		"1001": {},
		"1002": {},
	}
	if err := store.SaveSubscribers(subs); err != nil {
		t.Fatalf("SaveSubscribers failed: %v", err)
	}

	loaded, err := store.LoadSubscribers()
	if err != nil {
		t.Fatalf("LoadSubscribers failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 subscribers, got %d", len(loaded))
	}
	for id := range subs {
		if _, ok := loaded[id]; !ok {
			t.Errorf("subscriber %s missing after round trip", id)
		}
	}
}

func TestLoadSubscribersMissingFile(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	subs, err := store.LoadSubscribers()
	if err != nil {
		t.Fatalf("expected missing file to yield empty set, got error: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("expected empty set, got %d entries", len(subs))
	}
}

func TestLoadSubscribersDeduplicates(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	raw := `["1001", "1001", "1002", ""]`
	if err := os.WriteFile(filepath.Join(dir, subscribersFile), []byte(raw), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	subs, err := store.LoadSubscribers()
	if err != nil {
		t.Fatalf("LoadSubscribers failed: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("expected duplicates and empties collapsed to 2 entries, got %d", len(subs))
	}
}

func TestLoadSubscribersCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, subscribersFile), []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := store.LoadSubscribers(); err == nil {
		t.Error("expected error for corrupt subscribers file")
	}
}

func TestScheduleTimeRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := store.SaveScheduleTime(ScheduleTime{Hour: 21, Minute: 30}); err != nil {
		t.Fatalf("SaveScheduleTime failed: %v", err)
	}

	got, err := store.LoadScheduleTime()
	if err != nil {
		t.Fatalf("LoadScheduleTime failed: %v", err)
	}
	if got.Hour != 21 || got.Minute != 30 {
		t.Errorf("expected 21:30, got %02d:%02d", got.Hour, got.Minute)
	}
}

func TestLoadScheduleTimeDefaults(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := store.LoadScheduleTime()
	if err != nil {
		t.Fatalf("LoadScheduleTime failed: %v", err)
	}
	if got.Hour != DefaultHour || got.Minute != DefaultMinute {
		t.Errorf("expected default %02d:%02d, got %02d:%02d",
			DefaultHour, DefaultMinute, got.Hour, got.Minute)
	}
}

func TestLoadScheduleTimeOutOfRange(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	raw := `{"hour": 25, "minute": 0}`
	if err := os.WriteFile(filepath.Join(dir, scheduleFile), []byte(raw), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := store.LoadScheduleTime()
	if err != nil {
		t.Fatalf("LoadScheduleTime failed: %v", err)
	}
	if got.Hour != DefaultHour || got.Minute != DefaultMinute {
		t.Errorf("expected out-of-range value to fall back to default, got %02d:%02d",
			got.Hour, got.Minute)
	}
}

func TestSaveScheduleTimeRejectsInvalid(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := store.SaveScheduleTime(ScheduleTime{Hour: -1, Minute: 0}); err == nil {
		t.Error("expected error saving invalid schedule time")
	}
}
