package plan

import (
	"fmt"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonths returns the length of each calendar month of year.
func DaysInMonths(year int) [12]int {
	feb := 28
	if IsLeapYear(year) {
		feb = 29
	}
	return [12]int{31, feb, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
}

// MonthLabels returns the bucket labels for d: calendar month names for a
// year plan, "Month 1".."Month 6" for a six month plan.
func MonthLabels(d Duration) []string {
	if d == SixMonths {
		labels := make([]string, 6)
		for i := range labels {
			labels[i] = fmt.Sprintf("Month %d", i+1)
		}
		return labels
	}
	labels := make([]string, len(monthNames))
	copy(labels, monthNames[:])
	return labels
}

// calendar is the day grid a plan is laid over. monthDays may be longer
// than labels; only labelled months are walked.
type calendar struct {
	days      int
	labels    []string
	monthDays []int
}

// Generate builds the plan for d over the default canon. The year only
// affects February's length, but it does so for every day after it, so
// callers that persist entry IDs should generate with a fixed year.
func Generate(d Duration, year int) (*Plan, error) {
	return GenerateFrom(defaultCanon, d, year)
}

// GenerateFrom builds the plan for d over an explicit canon.
func GenerateFrom(canon Canon, d Duration, year int) (*Plan, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d days", ErrUnsupportedDuration, int(d))
	}
	if err := canon.validate(); err != nil {
		return nil, fmt.Errorf("invalid canon: %w", err)
	}

	monthDays := DaysInMonths(year)
	cal := calendar{
		days:      int(d),
		labels:    MonthLabels(d),
		monthDays: monthDays[:],
	}

	return &Plan{
		Duration: d,
		Year:     year,
		Months:   schedule(canon.Flatten(), cal),
	}, nil
}

// schedule distributes chapters across the calendar so that the running
// total after globalDay days is ceil(globalDay/days * total), with the last
// day forced to close at total.
func schedule(chapters []ChapterRef, cal calendar) []Month {
	months := make([]Month, len(cal.labels))
	for i, label := range cal.labels {
		months[i] = Month{Label: label, Index: i, Entries: []DailyEntry{}}
	}

	total := len(chapters)
	distributed := 0
	globalDay := 0

walk:
	for m := 0; m < len(cal.labels) && m < len(cal.monthDays); m++ {
		for d := 1; d <= cal.monthDays[m]; d++ {
			globalDay++
			if globalDay > cal.days {
				break walk
			}

			target := targetFor(globalDay, cal.days, total)
			if target <= distributed {
				continue
			}

			months[m].Entries = append(months[m].Entries, DailyEntry{
				ID:         entryID(cal.days, m, d),
				Day:        d,
				MonthIndex: m,
				Segments:   groupSegments(chapters[distributed:target]),
			})
			distributed = target
		}
	}

	if distributed < total {
		appendOverflow(months, chapters[distributed:], cal)
	}
	return months
}

// targetFor is the cumulative chapter count due by the end of day.
func targetFor(day, days, total int) int {
	if day >= days {
		return total
	}
	t := (day*total + days - 1) / days
	if t > total {
		return total
	}
	return t
}

// appendOverflow attaches unscheduled chapters to the last day that has
// readings, or the first bucket when none do.
func appendOverflow(months []Month, remaining []ChapterRef, cal calendar) {
	if len(months) == 0 {
		return
	}

	idx := 0
	for i := len(months) - 1; i >= 0; i-- {
		if len(months[i].Entries) > 0 {
			idx = i
			break
		}
	}

	var day int
	if entries := months[idx].Entries; len(entries) > 0 {
		day = entries[len(entries)-1].Day
	} else if idx < len(cal.monthDays) {
		day = cal.monthDays[idx]
	} else {
		day = 1
	}

	months[idx].Entries = append(months[idx].Entries, DailyEntry{
		ID:         overflowID(cal.days, idx, day),
		Day:        day,
		MonthIndex: idx,
		Segments:   groupSegments(remaining),
		Overflow:   true,
	})
}

// groupSegments folds consecutive chapters of the same book into ranges.
func groupSegments(refs []ChapterRef) []Segment {
	var segs []Segment
	for _, r := range refs {
		if n := len(segs); n > 0 && segs[n-1].Book == r.Book && segs[n-1].End+1 == r.Chapter {
			segs[n-1].End = r.Chapter
			continue
		}
		segs = append(segs, Segment{Book: r.Book, Start: r.Chapter, End: r.Chapter})
	}
	return segs
}

func entryID(days, monthIndex, day int) string {
	return fmt.Sprintf("%d-%d-%d", days, monthIndex, day)
}

func overflowID(days, monthIndex, day int) string {
	return entryID(days, monthIndex, day) + "-overflow"
}
