// Package tuitest provides testing utilities for TUI components.
package tuitest

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace so rendered
// views can be compared as plain text.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, strings.TrimRight(line, " "))
	}
	return strings.TrimRight(strings.Join(result, "\n"), "\n")
}

// KeyPress creates a key press message for a single rune.
func KeyPress(key rune) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}}
}

// KeyPressString creates one key press message per rune of s.
func KeyPressString(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, KeyPress(r))
	}
	return msgs
}

// KeyType creates a key press message for a special key.
func KeyType(k tea.KeyType) tea.Msg {
	return tea.KeyMsg{Type: k}
}

// KeyDown creates a down arrow key press message.
func KeyDown() tea.Msg { return KeyType(tea.KeyDown) }

// KeyUp creates an up arrow key press message.
func KeyUp() tea.Msg { return KeyType(tea.KeyUp) }

// KeyLeft creates a left arrow key press message.
func KeyLeft() tea.Msg { return KeyType(tea.KeyLeft) }

// KeyRight creates a right arrow key press message.
func KeyRight() tea.Msg { return KeyType(tea.KeyRight) }

// KeyEnter creates an enter key press message.
func KeyEnter() tea.Msg { return KeyType(tea.KeyEnter) }

// KeyEsc creates an escape key press message.
func KeyEsc() tea.Msg { return KeyType(tea.KeyEsc) }

// KeyBackspace creates a backspace key press message.
func KeyBackspace() tea.Msg { return KeyType(tea.KeyBackspace) }

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
