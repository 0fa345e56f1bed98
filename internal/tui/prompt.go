package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/core/styles"
)

type promptStep int

const (
	promptTitle promptStep = iota
	promptDescription
	promptTags
	promptDue
)

func (s promptStep) label() string {
	switch s {
	case promptTitle:
		return "Title"
	case promptDescription:
		return "Description"
	case promptTags:
		return "Tags (comma separated)"
	case promptDue:
		return "Due date"
	default:
		return ""
	}
}

func (s promptStep) placeholder() string {
	switch s {
	case promptTitle:
		return "empty title cancels"
	case promptDue:
		return "e.g. 2025-03-14, blank for none"
	default:
		return "optional"
	}
}

// addPrompt collects the fields of a new task one line at a time.
type addPrompt struct {
	step  promptStep
	input textinput.Model

	title       string
	description string
	tags        string
}

func newAddPrompt() addPrompt {
	p := addPrompt{step: promptTitle}
	p.input = p.newInput()
	return p
}

func (p addPrompt) newInput() textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = p.step.placeholder()
	input.CharLimit = 256
	input.Width = 60
	input.Cursor.Style = styles.PromptKeyStyle
	input.Focus()
	return input
}

// advance stores the current value and moves to the next step. It reports
// false once the last step is answered.
func (p *addPrompt) advance(value string) bool {
	switch p.step {
	case promptTitle:
		p.title = value
	case promptDescription:
		p.description = value
	case promptTags:
		p.tags = value
	case promptDue:
		return false
	}
	p.step++
	p.input = p.newInput()
	return true
}

func (m Model) openAddPrompt() (tea.Model, tea.Cmd) {
	if len(m.board.Columns()) == 0 {
		return m, nil
	}
	m.prompt = newAddPrompt()
	m.state = stateAwaitingInput
	return m, textinput.Blink
}

func (m Model) handlePromptKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyCtrlC:
		return m, tea.Quit
	case keyEsc:
		m.state = stateNormal
		m.status = "add cancelled"
		return m, nil
	case keyEnter:
		value := strings.TrimSpace(m.prompt.input.Value())
		if m.prompt.step == promptTitle && value == "" {
			m.state = stateNormal
			m.status = "add cancelled"
			return m, nil
		}
		if m.prompt.advance(value) {
			return m, textinput.Blink
		}
		m.finishAdd(value)
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m *Model) finishAdd(dueInput string) {
	m.state = stateNormal

	due, err := board.ParseDueDate(dueInput)
	if err != nil {
		m.warning = fmt.Sprintf("could not parse due date %q; task added without one", dueInput)
		due = nil
	}

	t, ok := m.board.AddTask(m.prompt.title, m.prompt.description, board.SplitTags(m.prompt.tags), due)
	if !ok {
		return
	}

	m.dirty = true
	m.status = fmt.Sprintf("added %s to %s", t.ShortID(), t.Status())
	m.log.Debug().Str("task", t.ID).Str("column", t.Status()).Msg("task added")
}

func (m Model) renderPrompt() string {
	label := styles.PromptKeyStyle.Render(m.prompt.step.label())
	step := styles.StatusStyle.Render(fmt.Sprintf("step %d/4  enter next  esc cancel", int(m.prompt.step)+1))
	return styles.PromptStyle.Render(label + "\n" + m.prompt.input.View() + "\n" + step)
}
