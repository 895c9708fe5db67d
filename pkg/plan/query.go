package plan

import (
	"fmt"
	"math"
	"time"
)

// Month returns the bucket with the given label.
func (p *Plan) Month(label string) (Month, bool) {
	for _, m := range p.Months {
		if m.Label == label {
			return m, true
		}
	}
	return Month{}, false
}

// Labels returns the month labels in calendar order.
func (p *Plan) Labels() []string {
	labels := make([]string, len(p.Months))
	for i, m := range p.Months {
		labels[i] = m.Label
	}
	return labels
}

// Entries returns every entry in month-then-day order.
func (p *Plan) Entries() []DailyEntry {
	var all []DailyEntry
	for _, m := range p.Months {
		all = append(all, m.Entries...)
	}
	return all
}

// Entry looks up an entry by ID.
func (p *Plan) Entry(id string) (DailyEntry, error) {
	for _, m := range p.Months {
		for _, e := range m.Entries {
			if e.ID == id {
				return e, nil
			}
		}
	}
	return DailyEntry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
}

// EntryOn returns the regular (non-overflow) entry scheduled for the given
// month and day, if any.
func (p *Plan) EntryOn(monthIndex, day int) (DailyEntry, bool) {
	if monthIndex < 0 || monthIndex >= len(p.Months) {
		return DailyEntry{}, false
	}
	for _, e := range p.Months[monthIndex].Entries {
		if e.Day == day && !e.Overflow {
			return e, true
		}
	}
	return DailyEntry{}, false
}

// EntryForDate maps a calendar date onto the plan. Six month plans use the
// same month index as the calendar, so July onwards has no entry.
func (p *Plan) EntryForDate(t time.Time) (DailyEntry, bool) {
	return p.EntryOn(int(t.Month())-1, t.Day())
}

// ChapterCount returns the number of chapters scheduled across the plan.
func (p *Plan) ChapterCount() int {
	n := 0
	for _, m := range p.Months {
		for _, e := range m.Entries {
			n += e.ChapterCount()
		}
	}
	return n
}

// DayOfYear converts a (monthIndex, day) pair into a 1-based day number for
// the plan's year.
func (p *Plan) DayOfYear(monthIndex, day int) int {
	md := DaysInMonths(p.Year)
	n := day
	for i := 0; i < monthIndex && i < len(md); i++ {
		n += md[i]
	}
	return n
}

// DefaultMonth picks the month a progress view should open on: the current
// calendar month if it has readings, otherwise the first month that does.
// Returns -1 when the plan is empty.
func (p *Plan) DefaultMonth(now time.Time) int {
	cur := int(now.Month()) - 1
	if cur < len(p.Months) && len(p.Months[cur].Entries) > 0 {
		return cur
	}
	for i, m := range p.Months {
		if len(m.Entries) > 0 {
			return i
		}
	}
	return -1
}

// Title is the heading shown for the plan.
func (p *Plan) Title() string {
	if p.Duration == SixMonths {
		return "Bible in 6 Months"
	}
	return "Annual Reading Plan"
}

// Description is the one-line summary shown under the title.
func (p *Plan) Description() string {
	if p.Duration == SixMonths {
		return "Intensive challenge: the whole Bible in 180 days, in chronological order."
	}
	return "A complete journey through the Bible in 365 days, in chronological order."
}

// Percent rounds done/total to a whole percentage, half away from zero.
// An empty total is 0%.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// Completed counts the month's entries that isDone accepts.
func (m Month) Completed(isDone func(id string) bool) int {
	n := 0
	for _, e := range m.Entries {
		if isDone(e.ID) {
			n++
		}
	}
	return n
}

// Progress is the month's completion percentage.
func (m Month) Progress(isDone func(id string) bool) int {
	return Percent(m.Completed(isDone), len(m.Entries))
}

// Progress is the whole plan's completion percentage, by entry.
func (p *Plan) Progress(isDone func(id string) bool) int {
	done, total := 0, 0
	for _, m := range p.Months {
		done += m.Completed(isDone)
		total += len(m.Entries)
	}
	return Percent(done, total)
}
