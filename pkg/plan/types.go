package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedDuration is returned for plan lengths other than Year and SixMonths.
	ErrUnsupportedDuration = errors.New("unsupported plan duration")
	// ErrEmptyCanon is returned when generating from a canon with no books.
	ErrEmptyCanon = errors.New("canon has no books")
	// ErrUnknownEntry is returned when an entry ID is not part of a plan.
	ErrUnknownEntry = errors.New("unknown plan entry")
)

// CanonError reports a book with an invalid chapter count.
type CanonError struct {
	Book     string
	Chapters int
}

func (e *CanonError) Error() string {
	return fmt.Sprintf("book %q has %d chapters", e.Book, e.Chapters)
}

// Duration is the length of a plan in days.
type Duration int

const (
	Year      Duration = 365
	SixMonths Duration = 180
)

// Mode names double as progress file names.
const (
	ModeYear      = "year"
	ModeSixMonths = "six_months"
)

// ParseDuration accepts a day count ("365", "180") or a mode name.
func ParseDuration(s string) (Duration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "365", ModeYear:
		return Year, nil
	case "180", ModeSixMonths, "six-months", "6m":
		return SixMonths, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedDuration, s)
}

// Valid reports whether d is a supported plan length.
func (d Duration) Valid() bool {
	return d == Year || d == SixMonths
}

// Mode returns the mode name for d, or "" if d is unsupported.
func (d Duration) Mode() string {
	switch d {
	case Year:
		return ModeYear
	case SixMonths:
		return ModeSixMonths
	}
	return ""
}

// Other returns the other supported duration. Used to flip between modes.
func (d Duration) Other() Duration {
	if d == Year {
		return SixMonths
	}
	return Year
}

func (d Duration) String() string {
	if m := d.Mode(); m != "" {
		return m
	}
	return strconv.Itoa(int(d)) + " days"
}

// Segment is a contiguous run of chapters from one book.
type Segment struct {
	Book  string `json:"book"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the number of chapters in the segment.
func (s Segment) Len() int {
	return s.End - s.Start + 1
}

// Range renders the chapter span as "N" or "N-M".
func (s Segment) Range() string {
	if s.Start == s.End {
		return strconv.Itoa(s.Start)
	}
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

func (s Segment) String() string {
	return s.Book + " " + s.Range()
}

// DailyEntry is one calendar day's assigned reading.
type DailyEntry struct {
	ID         string
	Day        int // day of month, 1-based
	MonthIndex int // 0-based
	Segments   []Segment
	// Completed is always false from the generator. Completion lives in
	// the progress store, keyed by ID.
	Completed bool
	// Overflow marks chapters appended by the safety pass.
	Overflow bool
}

const (
	bookSeparator    = " / "
	chapterSeparator = " | "
)

// Book joins the distinct book names read on this day.
func (e DailyEntry) Book() string {
	names := make([]string, 0, len(e.Segments))
	for _, s := range e.Segments {
		if len(names) > 0 && names[len(names)-1] == s.Book {
			continue
		}
		names = append(names, s.Book)
	}
	return strings.Join(names, bookSeparator)
}

// Chapters joins the per-book chapter ranges, each prefixed by its book.
func (e DailyEntry) Chapters() string {
	parts := make([]string, len(e.Segments))
	for i, s := range e.Segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, chapterSeparator)
}

// ChapterCount returns the number of chapters assigned to the day.
func (e DailyEntry) ChapterCount() int {
	n := 0
	for _, s := range e.Segments {
		n += s.Len()
	}
	return n
}

// Refs expands the entry back into individual chapters.
func (e DailyEntry) Refs() []ChapterRef {
	refs := make([]ChapterRef, 0, e.ChapterCount())
	for _, s := range e.Segments {
		for ch := s.Start; ch <= s.End; ch++ {
			refs = append(refs, ChapterRef{Book: s.Book, Chapter: ch})
		}
	}
	return refs
}

type entryJSON struct {
	ID         string    `json:"id"`
	Day        int       `json:"day"`
	MonthIndex int       `json:"monthIndex"`
	Book       string    `json:"book"`
	Chapters   string    `json:"chapters"`
	Completed  bool      `json:"completed"`
	Overflow   bool      `json:"overflow,omitempty"`
	Segments   []Segment `json:"segments"`
}

// MarshalJSON emits the display fields alongside the structured segments.
func (e DailyEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		ID:         e.ID,
		Day:        e.Day,
		MonthIndex: e.MonthIndex,
		Book:       e.Book(),
		Chapters:   e.Chapters(),
		Completed:  e.Completed,
		Overflow:   e.Overflow,
		Segments:   e.Segments,
	})
}

// UnmarshalJSON restores an entry from its structured segments. The display
// fields are ignored since they are derived.
func (e *DailyEntry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = DailyEntry{
		ID:         raw.ID,
		Day:        raw.Day,
		MonthIndex: raw.MonthIndex,
		Segments:   raw.Segments,
		Completed:  raw.Completed,
		Overflow:   raw.Overflow,
	}
	return nil
}

// Month is one labelled bucket of the plan.
type Month struct {
	Label   string       `json:"label"`
	Index   int          `json:"index"`
	Entries []DailyEntry `json:"entries"`
}

// Plan is the generated schedule. Months are in calendar order.
type Plan struct {
	Duration Duration `json:"duration"`
	Year     int      `json:"year"`
	Months   []Month  `json:"months"`
}
