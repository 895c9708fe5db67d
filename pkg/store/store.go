package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store manages the filesystem-backed reading progress.
type Store struct {
	Root string // e.g., ~/.local/share/bookclub

	logger *slog.Logger
}

// NewStore creates a Store rooted at the given directory.
// It creates the directory structure if it doesn't exist.
func NewStore(root string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	progressDir := filepath.Join(root, "progress")
	if err := os.MkdirAll(progressDir, 0755); err != nil {
		return nil, fmt.Errorf("creating progress directory: %w", err)
	}
	return &Store{Root: root, logger: logger}, nil
}

// ProgressDir returns the path to the progress directory.
func (s *Store) ProgressDir() string {
	return filepath.Join(s.Root, "progress")
}

// ProgressPath returns the path to the progress file for mode.
func (s *Store) ProgressPath(mode string) string {
	return filepath.Join(s.ProgressDir(), mode+".md")
}

func checkMode(mode string) error {
	if mode == "" || strings.ContainsAny(mode, `/\.`) {
		return fmt.Errorf("invalid progress mode %q", mode)
	}
	return nil
}

// LoadProgress reads the progress for mode. A missing file is an empty
// record. A file that cannot be parsed is discarded and reset.
func (s *Store) LoadProgress(mode string) (*Progress, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}

	path := s.ProgressPath(mode)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		p := NewProgress(mode)
		p.FilePath = path
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading progress %s: %w", mode, err)
	}

	p, err := ParseProgress(string(data))
	if err != nil {
		s.logger.Warn("discarding unreadable progress file",
			"mode", mode, "path", path, "error", err)
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("removing corrupt progress %s: %w", mode, rmErr)
		}
		p = NewProgress(mode)
	}

	p.Mode = mode
	p.FilePath = path
	return p, nil
}

// SaveProgress writes the progress file. The write goes through a temp file
// and a rename so watchers never observe a half-written file.
func (s *Store) SaveProgress(p *Progress) error {
	if err := checkMode(p.Mode); err != nil {
		return err
	}
	p.Updated = time.Now()

	content, err := SerializeProgress(p)
	if err != nil {
		return fmt.Errorf("serializing progress: %w", err)
	}

	path := s.ProgressPath(p.Mode)
	tmp, err := os.CreateTemp(s.ProgressDir(), "."+p.Mode+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp progress file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing progress %s: %w", p.Mode, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing progress %s: %w", p.Mode, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing progress %s: %w", p.Mode, err)
	}

	p.FilePath = path
	s.logger.Debug("saved progress", "mode", p.Mode, "done", p.Count())
	return nil
}

// SetDone marks an entry complete or incomplete. year is recorded on the
// first save so later loads can detect a plan year change.
func (s *Store) SetDone(mode string, year int, id string, done bool) (*Progress, error) {
	p, err := s.LoadProgress(mode)
	if err != nil {
		return nil, err
	}

	if done {
		p.Done[id] = true
	} else {
		delete(p.Done, id)
	}
	if p.Year == 0 {
		p.Year = year
	}

	if err := s.SaveProgress(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Toggle flips the completion state of an entry.
func (s *Store) Toggle(mode string, year int, id string) (*Progress, error) {
	p, err := s.LoadProgress(mode)
	if err != nil {
		return nil, err
	}
	return s.SetDone(mode, year, id, !p.IsDone(id))
}

// ResetProgress removes all completion state for mode.
func (s *Store) ResetProgress(mode string) error {
	if err := checkMode(mode); err != nil {
		return err
	}
	err := os.Remove(s.ProgressPath(mode))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing progress %s: %w", mode, err)
	}
	s.logger.Info("reset progress", "mode", mode)
	return nil
}

// ModTime returns the last modification time of the progress file for
// mode, or the zero time if it does not exist.
func (s *Store) ModTime(mode string) (time.Time, error) {
	info, err := os.Stat(s.ProgressPath(mode))
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
