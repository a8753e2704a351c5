package session

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(22)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// helpEntries lists every binding with all of its keys.
func (k KeyMap) helpEntries() [][2]string {
	var entries [][2]string
	for _, group := range k.FullHelp() {
		for _, b := range group {
			entries = append(entries, [2]string{keyList(b.Keys()), b.Help().Desc})
		}
	}
	return entries
}

func keyList(keys []string) string {
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = keyLabel(k)
	}
	return strings.Join(labels, " / ")
}

func keyLabel(k string) string {
	switch k {
	case "ctrl+c":
		return "Ctrl+C"
	case "shift+tab":
		return "Shift+Tab"
	case "tab":
		return "Tab"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	if len(k) == 2 && k[0] == 'f' {
		return "F" + k[1:]
	}
	return k
}

// renderHelpOverlay renders a centered box with every key binding.
func (m Model) renderHelpOverlay() string {
	lines := []string{helpTitleStyle.Render("Keyboard Shortcuts"), ""}
	for _, e := range m.keys.helpEntries() {
		lines = append(lines, helpKeyStyle.Render(e[0])+helpDescStyle.Render(e[1]))
	}
	lines = append(lines, "", LabelStyle.Render("Press any key to close"))

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
