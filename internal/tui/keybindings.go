package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/kanban/internal/core/config"
)

var actionHelp = map[string]string{
	config.ActionPrevColumn:   "prev column",
	config.ActionNextColumn:   "next column",
	config.ActionPrevTask:     "prev task",
	config.ActionNextTask:     "next task",
	config.ActionMoveForward:  "move forward",
	config.ActionMoveBackward: "move back",
	config.ActionAdd:          "add task",
	config.ActionView:         "view task",
	config.ActionSave:         "save",
	config.ActionHelp:         "help",
	config.ActionQuit:         "quit",
}

// KeyMap maps configured keys to board actions. It implements help.KeyMap.
type KeyMap struct {
	bindings map[string]key.Binding
}

// NewKeyMap builds key bindings from the configured action to keys table.
// Actions without keys are disabled.
func NewKeyMap(keybindings map[string][]string) KeyMap {
	km := KeyMap{bindings: make(map[string]key.Binding, len(config.Actions))}

	for _, action := range config.Actions {
		keys := keybindings[action]
		binding := key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(helpKeys(keys), actionHelp[action]),
		)
		if len(keys) == 0 {
			binding.SetEnabled(false)
		}
		km.bindings[action] = binding
	}

	return km
}

func helpKeys(keys []string) string {
	labels := make([]string, len(keys))
	for i, k := range keys {
		switch k {
		case "left":
			labels[i] = "←"
		case "right":
			labels[i] = "→"
		case "up":
			labels[i] = "↑"
		case "down":
			labels[i] = "↓"
		default:
			labels[i] = k
		}
	}
	return strings.Join(labels, "/")
}

// Resolve returns the action bound to the key press. Actions are checked in
// config.Actions order so a key bound twice resolves to the first action.
func (k KeyMap) Resolve(msg tea.KeyMsg) (string, bool) {
	for _, action := range config.Actions {
		if key.Matches(msg, k.bindings[action]) {
			return action, true
		}
	}
	return "", false
}

// Binding returns the binding for an action.
func (k KeyMap) Binding(action string) key.Binding {
	return k.bindings[action]
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return k.pick(
		config.ActionMoveForward,
		config.ActionMoveBackward,
		config.ActionAdd,
		config.ActionView,
		config.ActionHelp,
		config.ActionQuit,
	)
}

// FullHelp returns every binding grouped into navigation, task and app
// columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.pick(config.ActionPrevColumn, config.ActionNextColumn, config.ActionPrevTask, config.ActionNextTask),
		k.pick(config.ActionMoveForward, config.ActionMoveBackward, config.ActionAdd, config.ActionView),
		k.pick(config.ActionSave, config.ActionHelp, config.ActionQuit),
	}
}

func (k KeyMap) pick(actions ...string) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, a := range actions {
		out = append(out, k.bindings[a])
	}
	return out
}
