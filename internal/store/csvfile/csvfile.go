// Package csvfile exports a board to CSV and merges CSV rows back into a
// board.
//
// The CSV layout has no title column. On import the description doubles as
// the title, and tags are split on ", " so a tag that itself contains ", "
// comes back as several tags.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hay-kot/kanban/internal/core/board"
)

// Header is the fixed first row of every export.
var Header = []string{"id", "status", "tag", "description", "created_at", "due_date"}

const tagSeparator = ", "

const (
	colID = iota
	colStatus
	colTag
	colDescription
	colCreatedAt
	colDueDate
)

// Export writes one row per task in column order.
func Export(w io.Writer, b *board.Board) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w: %w", board.ErrPersistence, err)
	}

	for _, t := range b.Tasks() {
		due := ""
		if t.DueDate != nil {
			due = strconv.FormatInt(t.DueDate.Unix(), 10)
		}

		row := []string{
			t.ID,
			t.Status(),
			strings.Join(t.Tags, tagSeparator),
			t.Description,
			strconv.FormatInt(t.CreatedAt.Unix(), 10),
			due,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w: %w", t.ID, board.ErrPersistence, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w: %w", board.ErrPersistence, err)
	}
	return nil
}

// ImportResult summarises a merge.
type ImportResult struct {
	Added      []string // ids placed on the board, in row order
	Skipped    []string // ids already present on the board
	NewColumns []string // columns created for unknown statuses
}

// Row is a parsed CSV row.
type Row struct {
	Line   int
	Status string
	Task   board.Task
}

// Parse reads and validates every row. A malformed row, or an id repeated
// within the file, fails the whole read with board.ErrPersistence naming its
// line.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: csv is empty", board.ErrPersistence)
		}
		return nil, fmt.Errorf("%w: read csv header: %w", board.ErrPersistence, err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("%w: unexpected csv header %q", board.ErrPersistence, strings.Join(header, ","))
	}

	var rows []Row
	seen := make(map[string]int)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", board.ErrPersistence, err)
		}
		line, _ := cr.FieldPos(0)

		row, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", board.ErrPersistence, line, err)
		}
		if first, dup := seen[row.Task.ID]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate id %q (first on line %d)",
				board.ErrPersistence, line, row.Task.ID, first)
		}
		seen[row.Task.ID] = line

		row.Line = line
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRecord(record []string) (Row, error) {
	id := strings.TrimSpace(record[colID])
	if id == "" {
		return Row{}, errors.New("missing id")
	}

	status := strings.TrimSpace(record[colStatus])
	if status == "" {
		return Row{}, errors.New("missing status")
	}

	created, err := strconv.ParseInt(strings.TrimSpace(record[colCreatedAt]), 10, 64)
	if err != nil {
		return Row{}, fmt.Errorf("created_at: %w", err)
	}

	var due *time.Time
	if s := strings.TrimSpace(record[colDueDate]); s != "" {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Row{}, fmt.Errorf("due_date: %w", err)
		}
		d := time.Unix(secs, 0)
		due = &d
	}

	var tags []string
	if record[colTag] != "" {
		tags = strings.Split(record[colTag], tagSeparator)
	}

	return Row{
		Status: status,
		Task: board.Task{
			ID:          id,
			Title:       record[colDescription],
			Description: record[colDescription],
			Tags:        tags,
			CreatedAt:   time.Unix(created, 0),
			DueDate:     due,
		},
	}, nil
}

// Import parses r and places every row whose id is not yet on the board.
// Nothing is placed when any row is malformed.
func Import(r io.Reader, b *board.Board) (ImportResult, error) {
	rows, err := Parse(r)
	if err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	known := b.Columns()

	for _, row := range rows {
		if _, exists := b.Task(row.Task.ID); exists {
			res.Skipped = append(res.Skipped, row.Task.ID)
			continue
		}

		if !slices.Contains(known, row.Status) {
			known = append(known, row.Status)
			res.NewColumns = append(res.NewColumns, row.Status)
		}

		if err := b.Place(row.Status, row.Task); err != nil {
			return res, fmt.Errorf("line %d: %w", row.Line, err)
		}
		res.Added = append(res.Added, row.Task.ID)
	}

	return res, nil
}
