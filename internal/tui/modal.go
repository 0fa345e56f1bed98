package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/core/styles"
)

const (
	detailModalMaxHeight = 30
	detailModalMargin    = 4
	detailModalChrome    = 8 // border + padding + title + help
	detailModalMinWidth  = 50
)

// DetailModal shows a task's metadata and rendered description.
type DetailModal struct {
	task       board.Task
	dateFormat string
	now        time.Time
	viewport   viewport.Model
}

// NewDetailModal creates a detail modal sized for the given screen.
func NewDetailModal(t board.Task, dateFormat string, now time.Time, width, height int) *DetailModal {
	d := &DetailModal{task: t, dateFormat: dateFormat, now: now}
	d.Resize(width, height)
	return d
}

func detailModalSize(width, height int) (int, int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	modalWidth := max(min(max(int(float64(width)*0.65), detailModalMinWidth), width-detailModalMargin), 20)
	modalHeight := max(min(height-detailModalMargin, detailModalMaxHeight), detailModalChrome+1)
	return modalWidth, modalHeight
}

// Resize fits the viewport to a new screen size and re-renders the content.
func (d *DetailModal) Resize(width, height int) {
	modalWidth, modalHeight := detailModalSize(width, height)
	contentWidth := modalWidth - 6

	d.viewport = viewport.New(contentWidth, modalHeight-detailModalChrome)
	d.viewport.SetContent(d.renderContent(contentWidth))
}

func (d *DetailModal) renderContent(width int) string {
	t := d.task
	lines := []string{
		styles.ModalLabelStyle.Render("ID") + t.ID,
		styles.ModalLabelStyle.Render("Status") + t.Status(),
		styles.ModalLabelStyle.Render("Created") + t.CreatedAt.Format(d.dateFormat),
	}

	due := styles.CardIDStyle.Render("none")
	if t.DueDate != nil {
		due = dueStyle(*t.DueDate, d.now).Render(t.DueDate.Format(d.dateFormat))
	}
	lines = append(lines, styles.ModalLabelStyle.Render("Due")+due)

	if len(t.Tags) > 0 {
		lines = append(lines, styles.ModalLabelStyle.Render("Tags")+renderTags(t.Tags))
	}

	lines = append(lines, "", renderMarkdown(t.Description, width))
	return strings.Join(lines, "\n")
}

// renderMarkdown renders a description with glamour, falling back to the raw
// text when rendering fails.
func renderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return styles.CardEmptyStyle.UnsetMarginTop().Render("no description")
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(max(width, 10)),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// ScrollUp scrolls the viewport up.
func (d *DetailModal) ScrollUp() {
	d.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (d *DetailModal) ScrollDown() {
	d.viewport.ScrollDown(1)
}

// Overlay renders the modal centered in the screen area.
func (d *DetailModal) Overlay(width, height int) string {
	modalWidth, modalHeight := detailModalSize(width, height)

	title := d.task.Title
	if d.viewport.TotalLineCount() > d.viewport.VisibleLineCount() {
		title += styles.CardIDStyle.Render(fmt.Sprintf(" (%.0f%%)", d.viewport.ScrollPercent()*100))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		"",
		d.viewport.View(),
		styles.ModalHelpStyle.Render("j/k scroll  esc close"),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		MaxHeight(modalHeight).
		Render(content)

	return place(modal, width, height)
}

// helpOverlay renders the full key help centered in the screen area.
func (m Model) helpOverlay() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Keyboard Shortcuts"),
		"",
		m.help.View(m.keys),
		styles.ModalHelpStyle.Render("esc close"),
	)
	return place(styles.ModalStyle.Render(content), m.width, m.height)
}

func place(modal string, width, height int) string {
	if width <= 0 || height <= 0 {
		return modal
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
