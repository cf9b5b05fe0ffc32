package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	subscribersFile = "subscriptions.json"
	scheduleFile    = "schedule.json"

	// DefaultHour and DefaultMinute are the stock daily report time.
	DefaultHour   = 8
	DefaultMinute = 0
)

// ScheduleTime is the persisted daily report time.
type ScheduleTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Valid reports whether the time is a real wall-clock HH:MM.
func (t ScheduleTime) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// Store handles persistence of subscribers and schedule configuration
type Store struct {
	dataDir string
}

// New creates a Store rooted at dataDir, creating it if needed.
func New(dataDir string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir}, nil
}

// LoadSubscribers loads the subscriber set. A missing file yields an empty
// set; duplicate entries in the file are collapsed.
func (s *Store) LoadSubscribers() (map[string]struct{}, error) {
	path := filepath.Join(s.dataDir, subscribersFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]struct{}), nil
		}
		return nil, fmt.Errorf("reading subscribers: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parsing subscribers: %w", err)
	}

	subs := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			subs[id] = struct{}{}
		}
	}
	return subs, nil
}

// SaveSubscribers writes the subscriber set as a sorted JSON list, so the
// file is stable across saves of the same set.
func (s *Store) SaveSubscribers(subs map[string]struct{}) error {
	ids := make([]string, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding subscribers: %w", err)
	}

	path := filepath.Join(s.dataDir, subscribersFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing subscribers: %w", err)
	}
	return nil
}

// LoadScheduleTime loads the daily report time, falling back to the
// default when the file is missing or holds an out-of-range value.
func (s *Store) LoadScheduleTime() (ScheduleTime, error) {
	fallback := ScheduleTime{Hour: DefaultHour, Minute: DefaultMinute}
	path := filepath.Join(s.dataDir, scheduleFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fallback, nil
		}
		return fallback, fmt.Errorf("reading schedule time: %w", err)
	}

	var t ScheduleTime
	if err := json.Unmarshal(data, &t); err != nil {
		return fallback, fmt.Errorf("parsing schedule time: %w", err)
	}
	if !t.Valid() {
		return fallback, nil
	}
	return t, nil
}

// SaveScheduleTime persists a new daily report time.
func (s *Store) SaveScheduleTime(t ScheduleTime) error {
	if !t.Valid() {
		return fmt.Errorf("invalid schedule time %02d:%02d", t.Hour, t.Minute)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schedule time: %w", err)
	}

	path := filepath.Join(s.dataDir, scheduleFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing schedule time: %w", err)
	}
	return nil
}
