package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Cell is a nullable text value.
type Cell struct {
	Value string
	Valid bool
}

// Null is the missing value.
var Null = Cell{}

func String(value string) Cell {
	return Cell{Value: value, Valid: true}
}

func (c Cell) String() string {
	if !c.Valid {
		return "<null>"
	}
	return c.Value
}

// Record is a single row, cells are ordered by the owning table's columns.
type Record []Cell

func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

func (r Record) key() string {
	var sb strings.Builder
	for _, c := range r {
		if c.Valid {
			sb.WriteByte('v')
			sb.WriteString(fmt.Sprint(len(c.Value)))
			sb.WriteByte(':')
			sb.WriteString(c.Value)
			continue
		}
		sb.WriteByte('n')
	}
	return sb.String()
}

// Table is an ordered list of records sharing one fixed column schema.
type Table struct {
	Columns []string
	Rows    []Record
}

// New creates an empty table, columns must be unique and non-empty.
func New(columns ...string) *Table {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == "" {
			panic("tabular: empty column name")
		}
		if _, ok := seen[c]; ok {
			panic(fmt.Sprintf("tabular: duplicate column %q", c))
		}
		seen[c] = struct{}{}
	}
	return &Table{Columns: append([]string{}, columns...)}
}

// Append adds a row, the number of cells must match the number of columns.
func (t *Table) Append(cells ...Cell) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf(
			"tabular: row has %d cells, table has %d columns",
			len(cells), len(t.Columns),
		)
	}
	t.Rows = append(t.Rows, append(Record{}, cells...))
	return nil
}

// Column returns the index of a column or -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) mustColumn(name string) int {
	idx := t.Column(name)
	if idx < 0 {
		panic(fmt.Sprintf("tabular: unknown column %q", name))
	}
	return idx
}

// Get returns the cell of a row under a named column.
func (t *Table) Get(row int, column string) Cell {
	return t.Rows[row][t.mustColumn(column)]
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// ForwardFill replaces each null cell in a column with the closest non-null
// value above it. Cells before the first non-null value stay null.
func (t *Table) ForwardFill(column string) {
	idx := t.mustColumn(column)
	last := Null
	for _, row := range t.Rows {
		if row[idx].Valid {
			last = row[idx]
			continue
		}
		row[idx] = last
	}
}

// DropDuplicates removes rows that are identical to an earlier row, keeping
// the first occurrence in place.
func (t *Table) DropDuplicates() {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		k := row.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, row)
	}
	t.Rows = kept
}

func (t *Table) Equal(other *Table) bool {
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != other.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if !t.Rows[i].Equal(other.Rows[i]) {
			return false
		}
	}
	return true
}

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatCSV, FormatMarkdown:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Render writes the table to w. Null cells are rendered empty.
func (t *Table) Render(w io.Writer, format Format) {
	writer := table.NewWriter()
	writer.SetStyle(table.StyleRounded)
	writer.SetOutputMirror(w)

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	writer.AppendHeader(header)

	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, c := range r {
			row[i] = c.Value
		}
		writer.AppendRow(row)
	}

	switch format {
	case FormatCSV:
		writer.RenderCSV()
	case FormatMarkdown:
		writer.RenderMarkdown()
	default:
		writer.Render()
	}
}
