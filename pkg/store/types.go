package store

import (
	"sort"
	"time"
)

// Progress is the persisted set of completed plan entries for one mode.
type Progress struct {
	// Frontmatter fields
	Mode    string    `yaml:"mode"`
	Year    int       `yaml:"year,omitempty"`
	Updated time.Time `yaml:"updated"`

	// Done is keyed by plan entry ID.
	Done map[string]bool `yaml:"-"`

	// Free-form notes below the frontmatter, preserved on save.
	Body string `yaml:"-"`

	// Filesystem metadata (not serialized to YAML)
	FilePath string `yaml:"-"`
}

// NewProgress returns an empty progress record for mode.
func NewProgress(mode string) *Progress {
	return &Progress{Mode: mode, Done: make(map[string]bool)}
}

// IsDone reports whether the entry with the given ID is complete.
func (p *Progress) IsDone(id string) bool {
	return p.Done[id]
}

// Count returns the number of completed entries.
func (p *Progress) Count() int {
	return len(p.Done)
}

// IDs returns the completed entry IDs, sorted.
func (p *Progress) IDs() []string {
	ids := make([]string, 0, len(p.Done))
	for id := range p.Done {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StaleYear reports whether the progress was recorded against a different
// plan year. Entry IDs are only aligned within a single generation year.
func (p *Progress) StaleYear(year int) bool {
	return p.Year != 0 && p.Year != year
}
