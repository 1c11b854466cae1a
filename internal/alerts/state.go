// Package alerts tracks per-product drop-alert suppression: at most one
// alert per product per calendar day.
package alerts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// dayFormat is the calendar-day granularity key. The local clock decides
// day boundaries.
const dayFormat = "2006-01-02"

// pruneAfterDays drops entries older than this on save, so a long gap in
// runs cannot carry stale suppression forward and the file stays small.
const pruneAfterDays = 2

// State is the alert-suppression map for one run: product key to the day
// it last triggered a drop alert. Owned by the run loop; not safe for
// concurrent use.
type State struct {
	path    string
	entries map[string]string
	now     func() time.Time
}

// Option configures State.
type Option func(*State)

// WithNowFunc overrides the clock, used by tests to cross day boundaries.
func WithNowFunc(f func() time.Time) Option {
	return func(s *State) {
		s.now = f
	}
}

// Load reads the suppression state from path. A missing file yields an
// empty state; a corrupt file is an error so a bad deploy is noticed
// rather than silently re-alerting everything.
func Load(path string, opts ...Option) (*State, error) {
	s := &State{
		path:    path,
		entries: make(map[string]string),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading alert state: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parsing alert state: %w", err)
	}
	return s, nil
}

// AlreadyToday reports whether the product has alerted on the current
// calendar day.
func (s *State) AlreadyToday(name string) bool {
	return s.entries[name] == s.now().Format(dayFormat)
}

// Mark records an alert for the product on the current calendar day.
func (s *State) Mark(name string) {
	s.entries[name] = s.now().Format(dayFormat)
}

// Save persists the state, pruning entries older than two days.
func (s *State) Save() error {
	cutoff := s.now().AddDate(0, 0, -pruneAfterDays).Format(dayFormat)
	pruned := make(map[string]string, len(s.entries))
	for name, day := range s.entries {
		if day >= cutoff {
			pruned[name] = day
		}
	}
	s.entries = pruned

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding alert state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil { //nolint:gosec // state file is not sensitive
		return fmt.Errorf("writing alert state: %w", err)
	}
	return nil
}
