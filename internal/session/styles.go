package session

import "github.com/charmbracelet/lipgloss"

// Palette shared with the rest of the terminal output.
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
)

// Usage thresholds for the CPU% and MEM% columns.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	HostNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary).
				Bold(true).
				Underline(true)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy)

	StatusErrStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	UnreachableStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

// UsageColor returns the color for a CPU or memory percentage.
func UsageColor(value float64) lipgloss.Color {
	switch {
	case value >= CriticalThreshold:
		return ColorCritical
	case value >= WarningThreshold:
		return ColorWarning
	default:
		return ColorTextPrimary
	}
}

// UsageStyle returns a style colored for the given percentage.
func UsageStyle(value float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(UsageColor(value))
}
