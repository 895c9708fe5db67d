package store

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	return s
}

func TestNewStoreCreatesProgressDir(t *testing.T) {
	s := setupTestStore(t)

	info, err := os.Stat(s.ProgressDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadProgressMissing(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.LoadProgress("year")
	require.NoError(t, err)
	assert.Equal(t, "year", p.Mode)
	assert.Zero(t, p.Count())
	assert.Zero(t, p.Year)
}

func TestSetDonePersists(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.SetDone("year", 2026, "365-0-1", true)
	require.NoError(t, err)
	_, err = s.SetDone("year", 2026, "365-0-2", true)
	require.NoError(t, err)

	p, err := s.LoadProgress("year")
	require.NoError(t, err)
	assert.Equal(t, []string{"365-0-1", "365-0-2"}, p.IDs())
	assert.Equal(t, 2026, p.Year)
	assert.False(t, p.Updated.IsZero())

	_, err = os.Stat(filepath.Join(s.ProgressDir(), "year.md"))
	assert.NoError(t, err)

	_, err = s.SetDone("year", 2026, "365-0-1", false)
	require.NoError(t, err)
	p, err = s.LoadProgress("year")
	require.NoError(t, err)
	assert.Equal(t, []string{"365-0-2"}, p.IDs())
}

func TestModesAreIndependent(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.SetDone("year", 2026, "365-0-1", true)
	require.NoError(t, err)

	six, err := s.LoadProgress("six_months")
	require.NoError(t, err)
	assert.Zero(t, six.Count())
}

func TestToggle(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.Toggle("six_months", 2026, "180-0-1")
	require.NoError(t, err)
	assert.True(t, p.IsDone("180-0-1"))

	p, err = s.Toggle("six_months", 2026, "180-0-1")
	require.NoError(t, err)
	assert.False(t, p.IsDone("180-0-1"))
}

func TestYearRecordedOnce(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.SetDone("year", 2025, "365-0-1", true)
	require.NoError(t, err)
	p, err := s.SetDone("year", 2026, "365-0-2", true)
	require.NoError(t, err)

	assert.Equal(t, 2025, p.Year)
	assert.True(t, p.StaleYear(2026))
	assert.False(t, p.StaleYear(2025))
	assert.False(t, NewProgress("year").StaleYear(2026))
}

func TestCorruptProgressIsReset(t *testing.T) {
	var logs bytes.Buffer
	s, err := NewStore(t.TempDir(), slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)

	path := s.ProgressPath("year")
	require.NoError(t, os.WriteFile(path, []byte("---\ndone: [unterminated\n"), 0644))

	p, err := s.LoadProgress("year")
	require.NoError(t, err)
	assert.Zero(t, p.Count())
	assert.Contains(t, logs.String(), "discarding unreadable progress file")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestResetProgress(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.SetDone("year", 2026, "365-0-1", true)
	require.NoError(t, err)
	require.NoError(t, s.ResetProgress("year"))

	p, err := s.LoadProgress("year")
	require.NoError(t, err)
	assert.Zero(t, p.Count())

	// Resetting again is a no-op.
	assert.NoError(t, s.ResetProgress("year"))
}

func TestSavePreservesBody(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.LoadProgress("year")
	require.NoError(t, err)
	p.Body = "Reading with the Tuesday group.\n"
	p.Done["365-0-1"] = true
	require.NoError(t, s.SaveProgress(p))

	p, err = s.LoadProgress("year")
	require.NoError(t, err)
	assert.Equal(t, "Reading with the Tuesday group.", p.Body)
	assert.True(t, p.IsDone("365-0-1"))
}

func TestInvalidMode(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.LoadProgress("../escape")
	assert.Error(t, err)
	_, err = s.LoadProgress("")
	assert.Error(t, err)
	assert.Error(t, s.ResetProgress("a/b"))
}

func TestModTime(t *testing.T) {
	s := setupTestStore(t)

	mt, err := s.ModTime("year")
	require.NoError(t, err)
	assert.True(t, mt.IsZero())

	_, err = s.SetDone("year", 2026, "365-0-1", true)
	require.NoError(t, err)
	mt, err = s.ModTime("year")
	require.NoError(t, err)
	assert.False(t, mt.IsZero())
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.SetDone("year", 2026, "365-0-1", true)
	require.NoError(t, err)

	entries, err := os.ReadDir(s.ProgressDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "year.md", entries[0].Name())
}
