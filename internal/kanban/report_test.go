package kanban

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/kanban/internal/core/board"
)

func TestComputeStats(t *testing.T) {
	b, err := board.New(defaultColumns, testBoardOpts()...)
	require.NoError(t, err)

	past := fixedNow.Add(-24 * time.Hour)
	future := fixedNow.Add(24 * time.Hour)

	_, _ = b.AddTask("late", "", []string{"doc"}, &past)
	_, _ = b.AddTask("later", "", []string{"ui", "doc"}, &future)
	_, _ = b.AddTask("someday", "", nil, nil)
	require.True(t, b.MoveTask(board.Forward))

	stats := ComputeStats(b, fixedNow)

	assert.Equal(t, []ColumnStats{
		{Column: "Todo", Count: 2, Overdue: 0},
		{Column: "Doing", Count: 1, Overdue: 1},
		{Column: "Done", Count: 0, Overdue: 0},
	}, stats.Columns)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 2, stats.Tags)
}

func TestTags(t *testing.T) {
	b, err := board.New(defaultColumns, testBoardOpts()...)
	require.NoError(t, err)
	assert.Empty(t, Tags(b))

	_, _ = b.AddTask("a", "", []string{"z", "a"}, nil)
	_, _ = b.AddTask("b", "", []string{"a", "m"}, nil)

	assert.Equal(t, []string{"z", "a", "m"}, Tags(b))
}
