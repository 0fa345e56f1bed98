package tui

import "time"

// Keys handled outside the configurable keymap.
const (
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
)

const (
	// dueSoonWindow is how close a due date must be to render as "soon".
	dueSoonWindow = 48 * time.Hour

	minColumnWidth = 24
	maxColumnWidth = 40
)
