package tui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fhop/bookclub/pkg/plan"
	"github.com/fhop/bookclub/pkg/store"
)

var march10 = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	s, err := store.NewStore(t.TempDir(), quietLogger())
	require.NoError(t, err)
	m := NewModel(s, plan.NewCache(nil), Options{
		Duration: plan.Year,
		Year:     2025,
		Now:      func() time.Time { return march10 },
		Logger:   quietLogger(),
	})
	return m, s
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func send(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func TestNewModelOpensCurrentMonth(t *testing.T) {
	m, _ := setupModel(t)

	require.NotNil(t, m.plan)
	assert.Equal(t, "Annual Reading Plan", m.plan.Title())
	assert.True(t, m.expanded[2])
	assert.Len(t, m.visibleRows, 12+31)

	row, ok := m.currentRow()
	require.True(t, ok)
	assert.Equal(t, "March", row.ID)
}

func TestToggleDonePersists(t *testing.T) {
	m, s := setupModel(t)

	m = press(m, "down")
	assert.Equal(t, "365-2-1", m.currentID())

	m = press(m, "space")
	assert.True(t, m.isDone("365-2-1"))

	p, err := s.LoadProgress("year")
	require.NoError(t, err)
	assert.True(t, p.IsDone("365-2-1"))
	assert.Equal(t, 2025, p.Year)

	// Month badge follows immediately
	assert.Equal(t, plan.Percent(1, 31), m.visibleRows[2].Progress)

	m = press(m, "space")
	assert.False(t, m.isDone("365-2-1"))
}

func TestSpaceOnMonthDoesNothing(t *testing.T) {
	m, s := setupModel(t)

	m = press(m, "space")
	assert.Zero(t, m.progress.Count())

	p, err := s.LoadProgress("year")
	require.NoError(t, err)
	assert.Zero(t, p.Count())
}

func TestEnterTogglesMonth(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "enter")
	assert.Len(t, m.visibleRows, 12)
	assert.Equal(t, "March", m.currentID())

	m = press(m, "enter")
	assert.Len(t, m.visibleRows, 12+31)
}

func TestLeftRightNavigation(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "down", "down", "left")
	assert.Equal(t, "March", m.currentID())

	m = press(m, "left")
	assert.False(t, m.expanded[2])
	assert.Len(t, m.visibleRows, 12)

	m = press(m, "up", "right")
	assert.Equal(t, "February", m.currentID())
	assert.Len(t, m.visibleRows, 12+28)
}

func TestCursorBounds(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "up", "up", "up", "up")
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 100; i++ {
		m = press(m, "down")
	}
	assert.Equal(t, len(m.visibleRows)-1, m.cursor)
}

func TestTabSwitchesPlan(t *testing.T) {
	m, s := setupModel(t)

	m = press(m, "down", "space")
	m = press(m, "tab")

	assert.Equal(t, plan.SixMonths, m.duration)
	assert.Equal(t, "Bible in 6 Months", m.plan.Title())
	assert.Len(t, m.plan.Months, 6)
	assert.Equal(t, "Month 3", m.currentID())
	assert.Zero(t, m.progress.Count(), "progress is tracked per plan")

	m = press(m, "tab")
	assert.Equal(t, plan.Year, m.duration)
	assert.True(t, m.isDone("365-2-1"))

	six, err := s.LoadProgress("six_months")
	require.NoError(t, err)
	assert.Zero(t, six.Count())
}

func TestJumpToToday(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "enter", "up", "up") // collapse March, go to January
	m = press(m, "t")

	assert.Equal(t, "365-2-10", m.currentID())
	assert.True(t, m.expanded[2])
}

func TestJumpToTodayNothingScheduled(t *testing.T) {
	m, _ := setupModel(t)
	m.now = func() time.Time { return time.Date(2025, time.August, 1, 0, 0, 0, 0, time.Local) }

	m = press(m, "tab", "t")
	assert.Contains(t, m.statusMsg, "Nothing scheduled")
}

func TestSearchFiltersAndClears(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "/")
	assert.True(t, m.isSearching)

	m = typeText(m, "exodux")
	m = press(m, "backspace")
	m = typeText(m, "s")
	assert.Equal(t, "exodus", m.searchQuery)
	require.NotZero(t, CountMatches(m.visibleRows))
	for _, r := range m.visibleRows {
		if !r.IsMonth {
			assert.Contains(t, r.Entry.Chapters(), "Exodus")
		}
	}

	// Enter keeps the filter and leaves input mode
	m = press(m, "enter")
	assert.False(t, m.isSearching)
	assert.Equal(t, "exodus", m.searchQuery)

	// A second Enter clears the filter
	m = press(m, "enter")
	assert.Empty(t, m.searchQuery)
	assert.Len(t, m.visibleRows, 12+31)
}

func TestSearchEscClears(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "/")
	m = typeText(m, "job")
	m = press(m, "esc")

	assert.False(t, m.isSearching)
	assert.Empty(t, m.searchQuery)
	assert.Len(t, m.visibleRows, 12+31)
}

func TestSearchSwallowsCommandKeys(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "/")
	m = typeText(m, "q")
	assert.Equal(t, "q", m.searchQuery)
	assert.False(t, m.showResetConfirm)
}

func TestResetRequiresConfirmation(t *testing.T) {
	m, s := setupModel(t)

	m = press(m, "down", "space")
	require.True(t, m.isDone("365-2-1"))

	m = press(m, "X")
	assert.True(t, m.showResetConfirm)
	m = press(m, "n")
	assert.False(t, m.showResetConfirm)
	assert.True(t, m.isDone("365-2-1"))

	m = press(m, "X", "y")
	assert.False(t, m.showResetConfirm)
	assert.False(t, m.isDone("365-2-1"))

	p, err := s.LoadProgress("year")
	require.NoError(t, err)
	assert.Zero(t, p.Count())
}

func TestHelpModal(t *testing.T) {
	m, _ := setupModel(t)

	m = press(m, "?")
	assert.True(t, m.showHelpModal)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	// Keys other than close are ignored
	m = press(m, "down")
	assert.Equal(t, "March", m.currentID())

	m = press(m, "esc")
	assert.False(t, m.showHelpModal)
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestExternalChangesReload(t *testing.T) {
	m, s := setupModel(t)

	other, err := store.NewStore(s.Root, quietLogger())
	require.NoError(t, err)
	_, err = other.SetDone("year", 2025, "365-2-5", true)
	require.NoError(t, err)

	assert.False(t, m.isDone("365-2-5"))
	m = send(m, ProgressChangedMsg{})
	assert.True(t, m.isDone("365-2-5"))
}

func TestPollTickReloadsOnModTimeChange(t *testing.T) {
	m, s := setupModel(t)

	_, err := s.SetDone("year", 2025, "365-2-6", true)
	require.NoError(t, err)

	m = send(m, PollTickMsg{})
	assert.True(t, m.isDone("365-2-6"))
}

func TestStaleYearStatus(t *testing.T) {
	s, err := store.NewStore(t.TempDir(), quietLogger())
	require.NoError(t, err)
	_, err = s.SetDone("year", 2024, "365-0-1", true)
	require.NoError(t, err)

	m := NewModel(s, plan.NewCache(nil), Options{
		Duration: plan.Year,
		Year:     2025,
		Now:      func() time.Time { return march10 },
		Logger:   quietLogger(),
	})
	assert.Contains(t, m.statusMsg, "2024")
}

func TestViewRendersPlan(t *testing.T) {
	m, _ := setupModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	out := m.View()
	assert.Contains(t, out, "Annual Reading Plan")
	assert.Contains(t, out, "March")
	assert.Contains(t, out, "0% done")
}

func TestViewRendersEmptyMonthDetails(t *testing.T) {
	s, err := store.NewStore(t.TempDir(), quietLogger())
	require.NoError(t, err)
	m := NewModel(s, plan.NewCache(plan.Canon{{Name: "A", Chapters: 3}, {Name: "B", Chapters: 2}}), Options{
		Duration: plan.Year,
		Year:     2025,
		Now:      func() time.Time { return march10 },
		Logger:   quietLogger(),
	})

	m = press(m, "down") // March has one entry, cursor moves onto it
	assert.Equal(t, "365-2-15", m.currentID())
	m = press(m, "down") // April
	assert.Equal(t, "April", m.currentID())
	assert.Contains(t, m.detailsMarkdown(), "No readings scheduled")
}
