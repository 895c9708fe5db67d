package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const minWidth = 40
const minHeight = 10

func listWidth(width int) int {
	w := width * 2 / 5
	if w < 30 {
		w = 30
	}
	return w
}

func detailWidth(width int) int {
	w := width - listWidth(width) - 1 // 1 char for divider
	if w < 20 {
		w = 20
	}
	return w
}

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}

	if m.showResetConfirm {
		return placeOverlay(m.renderResetModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	if m.plan != nil {
		b.WriteString(SubtitleStyle.Render(m.plan.Description()))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2

	searchActive := m.isSearching || m.searchQuery != ""
	if searchActive {
		headerLines++
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}

	contentHeight := h - headerLines - footerLines
	leftWidth := listWidth(w)
	rightWidth := detailWidth(w)

	leftPanel := m.renderPlanPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sep := lipgloss.NewStyle().Foreground(ColorGrayDim).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	if m.plan == nil {
		return HeaderStyle.Render("Reading Plan")
	}
	title := HeaderStyle.Render(fmt.Sprintf("%s · %d", m.plan.Title(), m.plan.Year))

	done := 0
	total := 0
	for _, mo := range m.plan.Months {
		done += mo.Completed(m.isDone)
		total += len(mo.Entries)
	}
	stats := HeaderCountStyle.Render(fmt.Sprintf("%d/%d days · %d%% complete", done, total, m.plan.Progress(m.isDone)))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = "  " + StatusStyle.Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchQuery)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.searchQuery != "" {
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", CountMatches(m.visibleRows)))
	}

	left := prefix + query + cursor
	padWidth := width - lipgloss.Width(left) - lipgloss.Width(countStr)
	if padWidth < 1 {
		padWidth = 1
	}

	return left + strings.Repeat(" ", padWidth) + countStr
}

func (m Model) renderPlanPanel(width, height int) string {
	var lines []string

	// Reserve last line for the progress file path
	listHeight := height - 1
	if listHeight < 1 {
		listHeight = 1
	}

	if len(m.visibleRows) == 0 {
		if m.searchQuery != "" {
			lines = append(lines, FooterStyle.Render("No readings match."))
		} else {
			lines = append(lines, FooterStyle.Render("No plan loaded."))
		}
	}

	// Scrolling window
	startIdx := 0
	endIdx := len(m.visibleRows)
	if len(m.visibleRows) > listHeight {
		half := listHeight / 2
		startIdx = m.cursor - half
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + listHeight
		if endIdx > len(m.visibleRows) {
			endIdx = len(m.visibleRows)
			startIdx = endIdx - listHeight
			if startIdx < 0 {
				startIdx = 0
			}
		}
	}

	for i := startIdx; i < endIdx; i++ {
		row := m.visibleRows[i]
		isSelected := i == m.cursor
		if row.IsMonth {
			lines = append(lines, m.renderMonthRow(row, isSelected, width))
		} else {
			lines = append(lines, m.renderEntryRow(row, isSelected, width))
		}
	}

	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	if m.progress != nil && m.progress.FilePath != "" {
		pathLine := lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(m.progress.FilePath))
		lines = append(lines, pathLine)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderMonthRow(row Row, isSelected bool, width int) string {
	icon := IconCollapsed
	if row.IsExpanded {
		icon = IconExpanded
	}

	style := MonthStyle
	switch {
	case !row.HasEntries:
		style = MonthEmptyStyle
	case row.IsExpanded:
		style = MonthOpenStyle
	}
	line := icon + " " + style.Render(row.Name)

	var badge string
	switch {
	case !row.HasEntries:
		badge = MonthEmptyStyle.Render("no readings scheduled")
	case row.Progress == 100:
		badge = ProgressCompleteStyle.Render("100% done")
	default:
		badge = ProgressStyle.Render(fmt.Sprintf("%d%% done", row.Progress))
	}
	gap := width - lipgloss.Width(line) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	line += strings.Repeat(" ", gap) + badge

	return padAndSelect(line, isSelected, width)
}

func (m Model) renderEntryRow(row Row, isSelected bool, width int) string {
	check := CheckPendingStyle.Render(IconPending)
	text := PendingStyle.Render(row.Entry.Chapters())
	if row.Done {
		check = CheckDoneStyle.Render(IconDone)
		text = DoneStyle.Render(row.Entry.Chapters())
	}

	day := DayBadgeStyle.Render(fmt.Sprintf("%d", row.Entry.Day))
	if row.Entry.Overflow {
		day = OverflowStyle.Render(IconOverflow) + day
	}

	line := DepthIndent + day + " " + check + " " + text
	return padAndSelect(line, isSelected, width)
}

func padAndSelect(line string, isSelected bool, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}
	if isSelected {
		line = SelectedStyle.Render(line)
	}
	return line
}

func (m Model) renderDetailPanel(width, height int) string {
	md := m.detailsMarkdown()

	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}

	rendered = strings.TrimRight(rendered, "\n ")
	lines := strings.Split(rendered, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	if m.isSearching {
		help = "type to search  enter/↓ keep filter  esc clear"
	} else if m.searchQuery != "" {
		help = "esc/enter clear filter  ↑↓ nav  space done"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderResetModal() string {
	var b strings.Builder

	title := "this plan"
	if m.plan != nil {
		title = m.plan.Title()
	}

	b.WriteString(ModalTitleStyle.Render("Reset Progress"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Clear every completed reading for %s?\n", title))
	b.WriteString(WarnStyle.Render("This cannot be undone."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
