package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)
)

// Row styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	MonthStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOffWhite)

	MonthOpenStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	MonthEmptyStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DoneStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Strikethrough(true)

	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	CheckDoneStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	CheckPendingStyle = lipgloss.NewStyle().
				Foreground(ColorGrayDim)

	DayBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(4).
			Align(lipgloss.Right)

	OverflowStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	DepthIndent = "  "
)

// Progress badge styles
var (
	ProgressStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ProgressCompleteStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// Search styles
var (
	SearchBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	SearchCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Icons
const (
	IconDone      = "✓"
	IconPending   = "○"
	IconExpanded  = "▼"
	IconCollapsed = "▶"
	IconOverflow  = "+"
)
