package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/fhop/bookclub/pkg/plan"
	"github.com/fhop/bookclub/pkg/store"
)

// ProgressChangedMsg is sent when the file watcher sees a progress file change.
type ProgressChangedMsg struct{}

// PollTickMsg drives the polling fallback for missed watcher events.
type PollTickMsg struct{}

// Options configures a Model.
type Options struct {
	Duration     plan.Duration
	Year         int
	PollInterval time.Duration
	// Now defaults to time.Now. Used for the default month and "today".
	Now    func() time.Time
	Logger *slog.Logger
}

// Model is the Bubble Tea model for the reading plan TUI.
type Model struct {
	store  *store.Store
	plans  *plan.Cache
	keys   KeyMap
	now    func() time.Time
	logger *slog.Logger

	duration     plan.Duration
	year         int
	pollInterval time.Duration

	width  int
	height int

	plan        *plan.Plan
	progress    *store.Progress
	lastModTime time.Time
	visibleRows []Row
	expanded    map[int]bool
	cursor      int

	// Modal state
	showHelpModal    bool
	showResetConfirm bool

	// Search state
	isSearching bool
	searchQuery string

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a new TUI model and loads the plan selected by opts.
func NewModel(s *store.Store, plans *plan.Cache, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if !opts.Duration.Valid() {
		opts.Duration = plan.Year
	}
	if opts.Year == 0 {
		opts.Year = opts.Now().Year()
	}

	m := Model{
		store:        s,
		plans:        plans,
		keys:         DefaultKeyMap(),
		now:          opts.Now,
		logger:       opts.Logger,
		duration:     opts.Duration,
		year:         opts.Year,
		pollInterval: opts.PollInterval,
		expanded:     make(map[int]bool),
	}
	m.loadPlan()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), m.pollCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(detailWidth(msg.Width) - 2)
		return m, tea.ClearScreen

	case ProgressChangedMsg:
		m.reloadProgress()
		return m, nil

	case PollTickMsg:
		if mt, err := m.store.ModTime(m.duration.Mode()); err == nil && !mt.Equal(m.lastModTime) {
			m.reloadProgress()
		}
		return m, m.pollCmd()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) pollCmd() tea.Cmd {
	if m.pollInterval <= 0 {
		return nil
	}
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg {
		return PollTickMsg{}
	})
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Search input mode handling
	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// Reset confirmation
	if m.showResetConfirm {
		switch msg.String() {
		case "y", "Y":
			if err := m.store.ResetProgress(m.duration.Mode()); err != nil {
				m.setStatus("Reset failed: " + err.Error())
			} else {
				m.setStatus("Progress cleared for " + m.plan.Title())
				m.reloadProgress()
			}
			m.showResetConfirm = false
		case "n", "N", "esc":
			m.showResetConfirm = false
		}
		return m, nil
	}

	// If search filter is active (not typing), Esc/Enter clears it
	if m.searchQuery != "" && (msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter) {
		curID := m.currentID()
		m.searchQuery = ""
		m.rebuildVisible()
		m.moveCursorTo(curID)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visibleRows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Right):
		if row, ok := m.currentRow(); ok && row.IsMonth && !row.IsExpanded {
			m.expanded[row.MonthIndex] = true
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Left):
		if row, ok := m.currentRow(); ok {
			if !row.IsMonth {
				m.moveCursorTo(m.plan.Months[row.MonthIndex].Label)
			} else if row.IsExpanded {
				m.expanded[row.MonthIndex] = false
				m.rebuildVisible()
			}
		}

	case key.Matches(msg, m.keys.Enter):
		if row, ok := m.currentRow(); ok && row.IsMonth {
			m.expanded[row.MonthIndex] = !m.expanded[row.MonthIndex]
			m.rebuildVisible()
			m.moveCursorTo(row.ID)
		}

	case key.Matches(msg, m.keys.Space):
		if row, ok := m.currentRow(); ok && !row.IsMonth {
			m.toggleDone(row.Entry)
		}

	case key.Matches(msg, m.keys.Tab):
		m.duration = m.duration.Other()
		m.searchQuery = ""
		m.loadPlan()
		m.setStatus("Switched to " + m.plan.Title())

	case key.Matches(msg, m.keys.Today):
		m.jumpToToday()

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchQuery = ""

	case key.Matches(msg, m.keys.Reset):
		m.showResetConfirm = true

	case key.Matches(msg, m.keys.Reload):
		m.reloadProgress()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// handleSearchInput handles key messages while typing in the search bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isSearching = false
		m.searchQuery = ""
		m.rebuildVisible()
		return m, nil

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Keep the filter, leave the input
		m.isSearching = false
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
		}
		m.rebuildVisible()
		return m, nil

	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.searchQuery += string(msg.Runes)
			if msg.Type == tea.KeySpace && len(msg.Runes) == 0 {
				m.searchQuery += " "
			}
			m.rebuildVisible()
		}
		return m, nil
	}
}

func (m *Model) toggleDone(e plan.DailyEntry) {
	p, err := m.store.Toggle(m.duration.Mode(), m.year, e.ID)
	if err != nil {
		m.setStatus("Error: " + err.Error())
		return
	}
	m.logger.Debug("toggled reading", "mode", m.duration.Mode(), "id", e.ID, "done", p.IsDone(e.ID))
	m.setProgress(p)
	if p.IsDone(e.ID) {
		m.setStatus("Done: " + e.Chapters())
	} else {
		m.setStatus("Not done: " + e.Chapters())
	}
}

func (m *Model) jumpToToday() {
	today := m.now()
	e, ok := m.plan.EntryForDate(today)
	if !ok {
		m.setStatus("Nothing scheduled for " + today.Format("Jan 2"))
		return
	}
	m.searchQuery = ""
	m.expanded[e.MonthIndex] = true
	m.rebuildVisible()
	m.moveCursorTo(e.ID)
}

// loadPlan (re)generates the plan for the current duration and resets the
// view to the default month.
func (m *Model) loadPlan() {
	p, err := m.plans.Get(m.duration, m.year)
	if err != nil {
		m.setStatus("Plan error: " + err.Error())
		return
	}
	m.plan = p

	m.expanded = make(map[int]bool)
	open := p.DefaultMonth(m.now())
	if open >= 0 {
		m.expanded[open] = true
	}

	m.reloadProgress()
	m.cursor = 0
	if open >= 0 {
		m.moveCursorTo(p.Months[open].Label)
	}
}

func (m *Model) reloadProgress() {
	if m.plan == nil {
		return
	}
	mode := m.duration.Mode()
	p, err := m.store.LoadProgress(mode)
	if err != nil {
		m.setStatus("Load error: " + err.Error())
		return
	}
	m.setProgress(p)
	if p.StaleYear(m.year) {
		m.setStatus(fmt.Sprintf("Progress was recorded for %d; days after February may not line up", p.Year))
	}
}

func (m *Model) setProgress(p *store.Progress) {
	m.progress = p
	if mt, err := m.store.ModTime(p.Mode); err == nil {
		m.lastModTime = mt
	}
	m.rebuildVisible()
}

func (m *Model) isDone(id string) bool {
	return m.progress != nil && m.progress.IsDone(id)
}

func (m *Model) rebuildVisible() {
	if m.plan == nil {
		m.visibleRows = nil
		return
	}

	if m.searchQuery != "" {
		all := make(map[int]bool, len(m.plan.Months))
		for _, mo := range m.plan.Months {
			all[mo.Index] = true
		}
		m.visibleRows = FilterRows(FlattenPlan(m.plan, all, m.isDone), m.searchQuery)
	} else {
		m.visibleRows = FlattenPlan(m.plan, m.expanded, m.isDone)
	}

	// Clamp cursor
	if m.cursor >= len(m.visibleRows) {
		m.cursor = len(m.visibleRows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) currentRow() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleRows) {
		return Row{}, false
	}
	return m.visibleRows[m.cursor], true
}

func (m *Model) currentID() string {
	if row, ok := m.currentRow(); ok {
		return row.ID
	}
	return ""
}

// moveCursorTo positions the cursor on the row with the given ID.
func (m *Model) moveCursorTo(id string) {
	for i, r := range m.visibleRows {
		if r.ID == id {
			m.cursor = i
			return
		}
	}
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

// detailsMarkdown describes the selected row for the right-hand panel.
func (m Model) detailsMarkdown() string {
	row, ok := m.currentRow()
	if !ok {
		return "Select a month or a day to see details.\n"
	}

	var md strings.Builder
	if row.IsMonth {
		mo := m.plan.Months[row.MonthIndex]
		md.WriteString("# " + mo.Label + "\n\n")
		if len(mo.Entries) == 0 {
			md.WriteString("No readings scheduled for this month.\n")
			return md.String()
		}
		done := mo.Completed(m.isDone)
		fmt.Fprintf(&md, "**%d of %d** readings complete (%d%%)\n\n", done, len(mo.Entries), row.Progress)
		first, last := mo.Entries[0], mo.Entries[len(mo.Entries)-1]
		fmt.Fprintf(&md, "From **%s** to **%s**.\n", first.Refs()[0].Book, last.Refs()[len(last.Refs())-1].Book)
		return md.String()
	}

	e := row.Entry
	mo := m.plan.Months[e.MonthIndex]
	fmt.Fprintf(&md, "# %s, day %d\n\n", mo.Label, e.Day)
	status := "pending"
	if row.Done {
		status = "done"
	}
	fmt.Fprintf(&md, "**Status:** %s | **Chapters:** %d\n\n", status, e.ChapterCount())
	for _, s := range e.Segments {
		fmt.Fprintf(&md, "- %s, chapters %s\n", s.Book, s.Range())
	}
	if e.Overflow {
		md.WriteString("\n*Catch-up reading appended at the end of the plan.*\n")
	}
	fmt.Fprintf(&md, "\n`%s`\n", e.ID)
	return md.String()
}
