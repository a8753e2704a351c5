package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/procctl/procctl/internal/proc"
)

// reservedRows is the number of lines drawn around the process table:
// header, host, hints, blank, column header, overflow, status, prompt.
const reservedRows = 8

// defaultHeight is used before the first WindowSizeMsg arrives.
const defaultHeight = 24

// Column widths of the process table, excluding the command.
const (
	pidWidth   = 7
	userWidth  = 10
	pctWidth   = 5
	etimeWidth = 11
)

// View renders the current state.
func (m Model) View() string {
	switch m.state.Mode {
	case Terminated:
		return ""
	case HelpOverlay:
		return m.renderHelpOverlay()
	}
	return m.renderBrowser()
}

func (m Model) renderBrowser() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderHostLine())
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	b.WriteString("\n\n")
	b.WriteString(TableHeaderStyle.Render(columnHeader()))
	b.WriteString("\n")

	for _, line := range m.renderTable() {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	if m.promptActive() {
		b.WriteString(PromptStyle.Render(m.input.View()))
	}

	return b.String()
}

func (m Model) renderHeader() string {
	filter := m.state.Filter
	if filter == "" {
		filter = "(none)"
	}
	return TitleStyle.Render("procctl") + "  " +
		LabelStyle.Render("filter: ") + ValueStyle.Render(filter)
}

func (m Model) renderHostLine() string {
	d := m.state.CurrentHost()
	where := d.Address
	if !d.IsLocal() {
		where = d.Endpoint()
	}
	tab := fmt.Sprintf("Tab %d/%d", m.state.Current+1, len(m.state.Hosts))
	return LabelStyle.Render("Host: ") + HostNameStyle.Render(d.Name) + "  " +
		ValueStyle.Render(where) + "  " + LabelStyle.Render(d.Kind.String()) + "    " +
		LabelStyle.Render(tab)
}

// renderTable returns the body lines plus the overflow line.
func (m Model) renderTable() []string {
	maxRows := m.tableRows()
	s := m.state

	if !s.Reachable && s.SkippedFor > 0 {
		d := s.CurrentHost()
		return []string{UnreachableStyle.Render(fmt.Sprintf(
			"Skipping %s (%s) after repeated failures; next try in %s; see the log file",
			d.Name, d.Endpoint(), s.SkippedFor.Round(time.Second))), ""}
	}
	if !s.Reachable {
		d := s.CurrentHost()
		return []string{UnreachableStyle.Render(fmt.Sprintf("Cannot reach %s (%s); see the log file", d.Name, d.Endpoint())), ""}
	}
	if s.Loading && s.Snapshot.Len() == 0 {
		return []string{LabelStyle.Render("Loading..."), ""}
	}

	rows, truncated := s.Visible(maxRows)
	lines := make([]string, 0, len(rows)+1)
	for _, r := range rows {
		lines = append(lines, m.renderRow(r))
	}

	switch {
	case truncated:
		lines = append(lines, LabelStyle.Render(fmt.Sprintf("... %d more", s.Matched()-len(rows))))
	case len(rows) == 0 && s.Filter != "":
		lines = append(lines, LabelStyle.Render(fmt.Sprintf("No process matches %q", s.Filter)))
	default:
		lines = append(lines, "")
	}
	return lines
}

func (m Model) tableRows() int {
	h := m.height
	if h == 0 {
		h = defaultHeight
	}
	if h-reservedRows < 0 {
		return 0
	}
	return h - reservedRows
}

func columnHeader() string {
	return fmt.Sprintf("%*s %-*s %*s %*s %*s %s",
		pidWidth, "PID", userWidth, "USER", pctWidth, "CPU%", pctWidth, "MEM%", etimeWidth, "ETIME", "CMD")
}

func (m Model) renderRow(r proc.Record) string {
	prefix := fmt.Sprintf("%*d %-*s ", pidWidth, r.PID, userWidth, truncate(r.User, userWidth))
	cpu := UsageStyle(r.CPUPercent).Render(fmt.Sprintf("%*.1f", pctWidth, r.CPUPercent))
	mem := UsageStyle(r.MemPercent).Render(fmt.Sprintf("%*.1f", pctWidth, r.MemPercent))
	etime := fmt.Sprintf(" %*s ", etimeWidth, r.Elapsed)

	cmd := r.Command
	if m.width > 0 {
		used := pidWidth + userWidth + 2*pctWidth + etimeWidth + 5
		cmd = truncate(cmd, m.width-used)
	}
	return ValueStyle.Render(prefix) + cpu + " " + mem + ValueStyle.Render(etime+cmd)
}

func (m Model) renderStatus() string {
	if m.state.Status == "" {
		return ""
	}
	if m.state.StatusErr {
		return StatusErrStyle.Render(m.state.Status)
	}
	return StatusOKStyle.Render(m.state.Status)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
