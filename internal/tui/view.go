package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imkarma/gantt/internal/calendar"
	"github.com/imkarma/gantt/internal/gantt"
	"github.com/imkarma/gantt/internal/layout"
	"github.com/imkarma/gantt/internal/store"
)

// --- Color palette ---
var (
	clrSubtle    = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#666666"}
	clrHighlight = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	clrGreen     = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	clrYellow    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	clrRed       = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	clrDim       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}
)

// --- Styles ---
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	dimStyle    = lipgloss.NewStyle().Foreground(clrDim)
	subtleStyle = lipgloss.NewStyle().Foreground(clrSubtle)

	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	groupStyle  = lipgloss.NewStyle().Bold(true)
	ghostStyle  = lipgloss.NewStyle().Foreground(clrYellow)
	plainStyle  = lipgloss.NewStyle()

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrHighlight).
			Padding(1, 2).
			Width(60)

	statusStyle = lipgloss.NewStyle().Foreground(clrGreen).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(clrRed).Bold(true)

	footerKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	footerDescStyle = lipgloss.NewStyle().Foreground(clrSubtle)
)

// Cell glyphs.
const (
	glyphProgress  = '█'
	glyphRemaining = '▓'
	glyphGroup     = '▀'
	glyphMilestone = '◆'
	glyphBaseline  = '▔'
	glyphGhost     = '▒'
	glyphOrigin    = '░'
	glyphToday     = '│'
	glyphTick      = '·'
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.screen {
	case screenChart:
		content = m.viewChart()
	case screenLog:
		content = m.viewLog()
	}

	if m.popup != popupNone {
		content = m.overlayPopup(content)
	}
	return content
}

// ════════════════════════════════════════════════
// CHART VIEW
// ════════════════════════════════════════════════

func (m Model) viewChart() string {
	var b strings.Builder

	b.WriteString(m.chartHeader() + "\n")
	b.WriteString(m.axis() + "\n")

	if m.chart.Rows == 0 {
		b.WriteString("\n" + dimStyle.Render("  No tasks yet. Add one with: gantt task add <name> --start YYYY-MM-DD --end YYYY-MM-DD") + "\n")
	}

	rows := m.visibleRowCount()
	if rows == 0 {
		rows = m.chart.Rows
	}
	for row := m.grid.topRow; row < m.grid.topRow+rows && row < m.chart.Rows; row++ {
		ct, ok := m.chart.RowTask(row)
		if !ok {
			continue
		}
		b.WriteString(m.label(ct, row == m.cursor) + m.barLine(ct) + "\n")
		b.WriteString(strings.Repeat(" ", m.grid.labelWidth) + m.baselineLine(ct) + "\n")
	}

	b.WriteString(m.detailLine() + "\n")
	b.WriteString(m.statusLine() + "\n")
	b.WriteString(m.chartFooter())
	return b.String()
}

func (m Model) chartHeader() string {
	name := m.name
	if name == "" {
		name = "gantt"
	}
	header := titleStyle.Render(name)
	header += dimStyle.Render(fmt.Sprintf(" · %d tasks · %s · %s",
		len(m.tasks), m.opts.Scale, dateRange(m.chart.Range().Start, m.chart.Range().End)))

	rightHelp := footerKeyStyle.Render("L") + footerDescStyle.Render(" log  ") +
		footerKeyStyle.Render("q") + footerDescStyle.Render(" quit")

	if m.width > 0 {
		if gap := m.width - lipgloss.Width(header) - lipgloss.Width(rightHelp); gap > 0 {
			return header + strings.Repeat(" ", gap) + rightHelp
		}
	}
	return header
}

// axis lays the tick labels out over the timeline columns.
func (m Model) axis() string {
	cols := m.timelineCols()
	line := []rune(strings.Repeat(" ", cols))
	next := 0
	for _, tick := range m.chart.Ticks {
		c := m.grid.column(m.chart.Engine.X(tick))
		if c < next || c >= cols {
			continue
		}
		for _, r := range calendar.Label(tick, m.opts.Scale) {
			if c >= cols {
				break
			}
			line[c] = r
			c++
		}
		next = c + 1
	}
	return subtleStyle.Render(pad("Task", m.grid.labelWidth)) + dimStyle.Render(string(line))
}

func (m Model) label(ct gantt.ComputedTask, selected bool) string {
	name := ct.Name
	if name == "" {
		name = ct.ID
	}
	marker := "  "
	if ct.HasChildren {
		marker = "▾ "
		if ct.Collapsed {
			marker = "▸ "
		}
	}
	text := pad(strings.Repeat("  ", ct.Level)+marker+name, m.grid.labelWidth-1) + " "

	switch {
	case selected:
		return cursorStyle.Render(text)
	case ct.Disabled:
		return dimStyle.Render(text)
	case ct.IsGroup():
		return groupStyle.Render(text)
	}
	return text
}

// barLine draws a task's bar row. While the task is being dragged the
// candidate schedule is drawn as a ghost over the original position.
func (m Model) barLine(ct gantt.ComputedTask) string {
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Fill(ct.Task)))
	track := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Track(ct.Task)))
	today := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Critical))

	ghost, dragging := m.drag.Preview()
	dragging = dragging && ghost.TaskID == ct.ID

	progressEnd := ct.X + layout.ProgressWidth(ct)
	todayX, showToday := m.todayX()
	ticks := m.tickColumns()

	var line cellLine
	for c, n := 0, m.timelineCols(); c < n; c++ {
		lo, _ := m.grid.span(c)
		switch {
		case dragging && m.grid.covers(c, ghost.X, ghost.Width):
			if ct.IsMilestone() {
				line.add(glyphMilestone, ghostStyle)
			} else {
				line.add(glyphGhost, ghostStyle)
			}
		case ct.IsMilestone() && m.grid.covers(c, ct.X, 0):
			line.add(glyphMilestone, fill)
		case !ct.IsMilestone() && m.grid.covers(c, ct.X, ct.Width):
			switch {
			case dragging:
				line.add(glyphOrigin, dimStyle)
			case ct.IsGroup():
				line.add(glyphGroup, fill)
			case lo < progressEnd:
				line.add(glyphProgress, fill)
			default:
				line.add(glyphRemaining, track)
			}
		case showToday && m.grid.covers(c, todayX, 0):
			line.add(glyphToday, today)
		case ticks[c]:
			line.add(glyphTick, dimStyle)
		default:
			line.add(' ', plainStyle)
		}
	}
	return line.String()
}

func (m Model) baselineLine(ct gantt.ComputedTask) string {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Baseline))
	show := m.opts.ShowBaseline && ct.HasBaseline()

	var line cellLine
	for c, n := 0, m.timelineCols(); c < n; c++ {
		if show && m.grid.covers(c, ct.BaselineX, ct.BaselineWidth) {
			line.add(glyphBaseline, base)
		} else {
			line.add(' ', plainStyle)
		}
	}
	return line.String()
}

func (m Model) detailLine() string {
	if p, ok := m.drag.Preview(); ok {
		return ghostStyle.Render(fmt.Sprintf("  %s %s: %s", p.Mode, p.TaskID, dateRange(p.Start, p.End)))
	}
	ct, ok := m.selected()
	if !ok {
		return ""
	}
	parts := []string{dateRange(ct.Start, ct.End)}
	if !ct.IsGroup() && !ct.IsMilestone() {
		parts = append(parts, ftoa(ct.Progress)+"%")
	}
	if ct.HasBaseline() {
		slip := calendar.DiffDays(ct.End, ct.BaselineEnd)
		parts = append(parts, fmt.Sprintf("baseline %s (%+dd)", dateRange(ct.BaselineStart, ct.BaselineEnd), slip))
	}
	for _, l := range m.links {
		if l.To == ct.ID {
			parts = append(parts, "after "+l.From+" ("+string(l.Type)+")")
		}
	}
	return "  " + titleStyle.Render(ct.ID) + " " + subtleStyle.Render(strings.Join(parts, " · "))
}

func (m Model) statusLine() string {
	if !m.statusVisible() {
		return ""
	}
	if strings.HasPrefix(m.statusMsg, "Error") {
		return "  " + errorStyle.Render(m.statusMsg)
	}
	return "  " + statusStyle.Render(m.statusMsg)
}

func (m Model) chartFooter() string {
	keys := []struct{ key, desc string }{
		{"↑↓", "select"},
		{"←→", "pan"},
		{"space", "fold"},
		{"d/w/m", "scale"},
		{"<>", "move"},
		{"[]", "end"},
		{"{}", "start"},
		{"p", "progress"},
		{"b/B", "baseline"},
		{"esc", "cancel drag"},
	}
	return renderFooter(keys)
}

func (m Model) timelineCols() int {
	if m.width > 0 {
		return m.grid.cols(m.width)
	}
	return m.grid.column(m.chart.Width()) + 1
}

func (m Model) todayX() (float64, bool) {
	now := m.now()
	if !m.chart.Range().Contains(now) {
		return 0, false
	}
	return m.chart.Engine.X(now), true
}

func (m Model) tickColumns() map[int]bool {
	cols := make(map[int]bool, len(m.chart.Ticks))
	for _, t := range m.chart.Ticks {
		cols[m.grid.column(m.chart.Engine.X(t))] = true
	}
	return cols
}

// ════════════════════════════════════════════════
// LOG VIEW
// ════════════════════════════════════════════════

func (m Model) viewLog() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Event log"))
	b.WriteString("\n\n")
	b.WriteString(m.logViewport.View())
	b.WriteString("\n\n")

	keys := []struct{ key, desc string }{
		{"↑↓", "scroll"},
		{"esc", "back"},
	}
	b.WriteString(renderFooter(keys))
	return b.String()
}

func (m Model) renderEvents(events []store.Event) string {
	if len(events) == 0 {
		return dimStyle.Render("No events yet.")
	}
	var b strings.Builder
	for _, e := range events {
		src := ""
		if e.Source != "" {
			src = "[" + e.Source + "] "
		}
		b.WriteString(fmt.Sprintf("%s  %s%s %s %s\n",
			dimStyle.Render(e.Timestamp.Format("2006-01-02 15:04:05")),
			subtleStyle.Render(src),
			titleStyle.Render(pad(e.Type, 10)),
			e.TaskID,
			e.Content,
		))
	}
	return b.String()
}

// ════════════════════════════════════════════════
// POPUPS
// ════════════════════════════════════════════════

func (m Model) overlayPopup(bg string) string {
	var popup string

	switch m.popup {
	case popupProgress:
		popup = m.viewProgressPopup()
	case popupBaseline:
		popup = m.viewBaselinePopup()
	default:
		return bg
	}

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			popup,
			lipgloss.WithWhitespaceChars(" "),
		)
	}
	return popup
}

func (m Model) viewProgressPopup() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(clrHighlight).Render("Set Progress")
	b.WriteString(title + "\n\n")

	if ct, ok := m.selected(); ok {
		b.WriteString(ct.ID + "  " + ct.Name + "\n\n")
	}
	b.WriteString("Percent complete:\n")
	b.WriteString(m.textInput.View() + "\n\n")
	b.WriteString(footerDescStyle.Render("enter save • esc cancel"))

	return m.popupBoxStyle().Render(b.String())
}

func (m Model) viewBaselinePopup() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(clrYellow).Render("Capture Baseline")
	b.WriteString(title + "\n\n")

	b.WriteString(fmt.Sprintf("Copy the current dates of all %d tasks into their baseline?\n", len(m.tasks)))
	b.WriteString("Existing baselines are overwritten.\n\n")

	b.WriteString(footerKeyStyle.Render("y") + footerDescStyle.Render(" confirm  ") +
		footerKeyStyle.Render("n") + footerDescStyle.Render(" cancel"))

	return m.popupBoxStyle().Render(b.String())
}

func (m Model) popupBoxStyle() lipgloss.Style {
	w := 60
	if m.width > 0 {
		w = min(max(m.width-12, 42), 84)
	}
	return popupStyle.Width(w)
}

// ════════════════════════════════════════════════
// SHARED HELPERS
// ════════════════════════════════════════════════

func renderFooter(keys []struct{ key, desc string }) string {
	var parts []string
	for _, k := range keys {
		parts = append(parts, footerKeyStyle.Render(k.key)+" "+footerDescStyle.Render(k.desc))
	}
	return "  " + strings.Join(parts, "  ")
}

// pad truncates or right-pads s to exactly w cells.
func pad(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > w {
		return string(r[:w-1]) + "…"
	}
	return s + strings.Repeat(" ", w-len(r))
}

// cellLine accumulates glyphs, rendering runs that share a foreground
// together.
type cellLine struct {
	b     strings.Builder
	run   []rune
	style lipgloss.Style
	set   bool
}

func (l *cellLine) add(r rune, s lipgloss.Style) {
	if l.set && s.GetForeground() != l.style.GetForeground() {
		l.flush()
	}
	l.style, l.set = s, true
	l.run = append(l.run, r)
}

func (l *cellLine) flush() {
	if len(l.run) > 0 {
		l.b.WriteString(l.style.Render(string(l.run)))
	}
	l.run = l.run[:0]
}

func (l *cellLine) String() string {
	l.flush()
	return l.b.String()
}
