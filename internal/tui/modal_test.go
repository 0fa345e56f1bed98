package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/pkg/tuitest"
)

func TestDetailModal_Content(t *testing.T) {
	b := newTestBoard(t)
	due := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.Local)
	task, ok := b.AddTask("release", "# Notes\n\nship the **build**", []string{"ops"}, &due)
	require.True(t, ok)

	d := NewDetailModal(task, "2006-01-02", testNow, 100, 40)
	view := tuitest.StripANSI(d.Overlay(100, 40))

	for _, want := range []string{"release", task.ID, "Todo", "2025-03-10", "2025-03-14", "#ops", "Notes", "build"} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "**", "description is rendered as markdown")
}

func TestDetailModal_NoDescription(t *testing.T) {
	d := NewDetailModal(board.Task{ID: "abc", Title: "bare"}, "2006-01-02", testNow, 0, 0)
	view := tuitest.StripANSI(d.Overlay(0, 0))

	assert.Contains(t, view, "no description")
	assert.Contains(t, view, "none", "missing due date is shown as none")
}

func TestDetailModal_Scroll(t *testing.T) {
	long := strings.Repeat("line\n\n", 80)
	d := NewDetailModal(board.Task{ID: "abc", Title: "long", Description: long}, "2006-01-02", testNow, 80, 24)

	require.Greater(t, d.viewport.TotalLineCount(), d.viewport.VisibleLineCount())
	assert.Equal(t, 0, d.viewport.YOffset)

	d.ScrollDown()
	d.ScrollDown()
	assert.Equal(t, 2, d.viewport.YOffset)

	d.ScrollUp()
	assert.Equal(t, 1, d.viewport.YOffset)

	assert.Contains(t, tuitest.StripANSI(d.Overlay(80, 24)), "%)", "overflowing content shows scroll position")
}
