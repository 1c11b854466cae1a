package alerts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join(t.TempDir(), "last_alerted.json"))
	require.NoError(t, err)
	assert.False(t, s.AlreadyToday("Machine - Acme"))
}

func TestLoad_CorruptFileErrors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "last_alerted.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSuppression_OncePerCalendarDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }

	s, err := Load(filepath.Join(t.TempDir(), "last_alerted.json"), WithNowFunc(clock))
	require.NoError(t, err)

	const name = "Machine - Acme"
	assert.False(t, s.AlreadyToday(name), "first drop of the day must alert")
	s.Mark(name)
	assert.True(t, s.AlreadyToday(name), "second drop the same day is suppressed")

	// Later the same day, still suppressed.
	now = now.Add(10 * time.Hour)
	assert.True(t, s.AlreadyToday(name))

	// The next day it alerts again.
	now = now.Add(24 * time.Hour)
	assert.False(t, s.AlreadyToday(name))
}

func TestSave_PrunesOldEntriesAndRoundTrips(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "last_alerted.json")
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }

	seed := map[string]string{
		"Fresh - Acme":   "2026-08-30",
		"Recent - Acme":  "2026-08-28", // exactly at the 2-day cutoff, kept
		"Stale - Acme":   "2026-08-27",
		"Ancient - Acme": "2026-06-01",
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := Load(path, WithNowFunc(clock))
	require.NoError(t, err)
	require.NoError(t, s.Save())

	reloaded, err := Load(path, WithNowFunc(clock))
	require.NoError(t, err)
	assert.True(t, reloaded.AlreadyToday("Fresh - Acme"))

	var onDisk map[string]string
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, map[string]string{
		"Fresh - Acme":  "2026-08-30",
		"Recent - Acme": "2026-08-28",
	}, onDisk)
}
