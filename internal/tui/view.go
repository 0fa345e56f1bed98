package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/core/styles"
)

// cardHeight is the number of lines a rendered card occupies, margin
// included.
const cardHeight = 4

// View renders the model.
func (m Model) View() string {
	switch m.state {
	case stateShowingHelp:
		return m.helpOverlay()
	case stateShowingDetail:
		if m.detail != nil {
			return m.detail.Overlay(m.width, m.height)
		}
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	bodyHeight := 0
	if m.height > 0 {
		bodyHeight = max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), cardHeight+3)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderBoard(bodyHeight), footer)
}

func (m Model) renderHeader() string {
	title := styles.HeaderStyle.Render(styles.IconBoard + " kanban")
	info := fmt.Sprintf("%d tasks", m.board.Len())
	if m.path != "" {
		info = m.path + "  " + info
	}
	if m.dirty {
		info += "  [modified]"
	}
	return title + styles.StatusStyle.Render(info)
}

func (m Model) renderFooter() string {
	var parts []string

	if m.state == stateAwaitingInput {
		parts = append(parts, m.renderPrompt())
	}

	switch {
	case m.warning != "":
		parts = append(parts, styles.WarningStyle.Render(styles.IconWarning+" "+m.warning))
	case m.status != "":
		parts = append(parts, styles.StatusStyle.Render(m.status))
	}

	parts = append(parts, styles.StatusStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderBoard(height int) string {
	names := m.board.Columns()
	if len(names) == 0 {
		return styles.CardEmptyStyle.Render("no columns configured")
	}

	width := m.width
	if width <= 0 {
		width = 120
	}

	colWidth, fit := columnLayout(width, len(names))
	start, end := visibleRange(len(names), m.board.SelectedColumnIndex(), fit)

	cols := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cols = append(cols, m.renderColumn(i, names[i], colWidth, height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// columnLayout returns the inner column width and how many columns fit on
// screen.
func columnLayout(width, n int) (colWidth, fit int) {
	// border and padding on each side
	const frame = 4

	colWidth = width/n - frame
	colWidth = max(minColumnWidth, min(colWidth, maxColumnWidth))
	fit = max(1, width/(colWidth+frame))
	return colWidth, min(fit, n)
}

// visibleRange returns the half open window of size at most fit over n items
// that keeps sel visible.
func visibleRange(n, sel, fit int) (start, end int) {
	if fit >= n {
		return 0, n
	}
	start = max(0, min(sel-fit/2, n-fit))
	return start, start + fit
}

func (m Model) renderColumn(idx int, name string, width, height int) string {
	selected := idx == m.board.SelectedColumnIndex()
	tasks := m.board.TasksInColumn(name)

	title := styles.ColumnTitleStyle.Render(ansi.Truncate(name, width-6, "…")) +
		styles.ColumnCountStyle.Render(fmt.Sprintf(" (%d)", len(tasks)))

	selTask := -1
	if selected {
		if i, ok := m.board.SelectedTaskIndex(); ok {
			selTask = i
		}
	}

	lines := []string{title}
	if len(tasks) == 0 {
		lines = append(lines, styles.CardEmptyStyle.Render("no tasks"))
	}

	start, end := 0, len(tasks)
	if height > 0 {
		fit := max(1, (height-3)/cardHeight)
		start, end = visibleRange(len(tasks), max(selTask, 0), fit)
	}
	if start > 0 {
		lines = append(lines, styles.ColumnCountStyle.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, m.renderCard(tasks[i], i == selTask, width))
	}
	if end < len(tasks) {
		lines = append(lines, styles.ColumnCountStyle.Render(fmt.Sprintf("↓ %d more", len(tasks)-end)))
	}

	style := styles.ColumnStyle
	if selected {
		style = styles.ColumnSelectedStyle
	}
	style = style.Width(width + 2)
	if height > 0 {
		style = style.Height(height - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(t board.Task, selected bool, width int) string {
	inner := width - 3

	id := styles.CardIDStyle.Render(t.ShortID() + " ")
	title := styles.CardTitleStyle.Render(ansi.Truncate(t.Title, max(inner-9, 1), "…"))

	tags := ""
	if len(t.Tags) > 0 {
		tags = ansi.Truncate(renderTags(t.Tags), inner, "…")
	}

	due := ""
	if t.DueDate != nil {
		due = dueStyle(*t.DueDate, m.now()).Render(styles.IconCalendar + " " + t.DueDate.Format(m.dateFormat))
	}

	style := styles.CardStyle
	if selected {
		style = styles.CardSelectedStyle
	}
	return style.Width(width - 1).Render(id + title + "\n" + tags + "\n" + due)
}

func renderTags(tags []string) string {
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = styles.TagStyle(tag).Render(styles.IconTag + tag)
	}
	return strings.Join(parts, " ")
}

// dueStyle colors a due date by how close it is.
func dueStyle(due, now time.Time) lipgloss.Style {
	switch {
	case due.Before(now):
		return styles.DueOverdueStyle
	case due.Sub(now) <= dueSoonWindow:
		return styles.DueSoonStyle
	default:
		return styles.DueLaterStyle
	}
}
