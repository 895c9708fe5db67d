package tui

import (
	"strings"

	"github.com/fhop/bookclub/pkg/plan"
)

// Row is one line of the plan view: either a month header or a day entry.
type Row struct {
	ID         string // month label or entry ID
	MonthIndex int
	Name       string
	IsMonth    bool
	IsExpanded bool
	HasEntries bool
	Progress   int // month rows only

	Entry plan.DailyEntry // entry rows only
	Done  bool
}

// FlattenPlan converts a plan into rows, listing the entries of every
// expanded month under its header.
func FlattenPlan(p *plan.Plan, expanded map[int]bool, isDone func(id string) bool) []Row {
	var rows []Row
	for _, m := range p.Months {
		rows = append(rows, Row{
			ID:         m.Label,
			MonthIndex: m.Index,
			Name:       m.Label,
			IsMonth:    true,
			IsExpanded: expanded[m.Index],
			HasEntries: len(m.Entries) > 0,
			Progress:   m.Progress(isDone),
		})
		if !expanded[m.Index] {
			continue
		}
		for _, e := range m.Entries {
			rows = append(rows, Row{
				ID:         e.ID,
				MonthIndex: m.Index,
				Name:       e.Book(),
				Entry:      e,
				Done:       isDone(e.ID),
			})
		}
	}
	return rows
}

// FilterRows keeps entry rows whose chapters match query (case-insensitive),
// along with the headers of the months they belong to.
func FilterRows(rows []Row, query string) []Row {
	query = strings.ToLower(query)
	var result []Row
	var header *Row
	for i := range rows {
		r := rows[i]
		if r.IsMonth {
			header = &rows[i]
			continue
		}
		if !strings.Contains(strings.ToLower(r.Entry.Chapters()), query) {
			continue
		}
		if header != nil {
			result = append(result, *header)
			header = nil
		}
		result = append(result, r)
	}
	return result
}

// CountMatches returns the number of entry rows in rows.
func CountMatches(rows []Row) int {
	n := 0
	for _, r := range rows {
		if !r.IsMonth {
			n++
		}
	}
	return n
}
