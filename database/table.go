package database

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MissingColumnError is returned when a table lacks a column which a stage
// cannot run without
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s is missing required column %s", e.Table, e.Column)
}

// Table is an in memory copy of one table. Cells are addressed by row
// index and column name. Accessors for absent columns or unparseable cells
// return the zero value of their type.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable wraps a header and rows
func NewTable(name string, header []string, rows [][]string) *Table {
	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if _, ok := index[col]; !ok {
			index[col] = i
		}
	}
	return &Table{
		Name:   name,
		Header: header,
		Rows:   rows,
		index:  index,
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the table carries the column
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Require returns a *MissingColumnError for the first absent column
func (t *Table) Require(columns ...string) error {
	for _, col := range columns {
		if !t.Has(col) {
			return &MissingColumnError{Table: t.Name, Column: col}
		}
	}
	return nil
}

// String returns the raw cell value
func (t *Table) String(row int, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Float returns the cell as a float64. Missing, empty, unparseable and
// NaN cells are 0.
func (t *Table) Float(row int, column string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(t.String(row, column)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Int returns the cell as an int64, truncating fractional values
func (t *Table) Int(row int, column string) int64 {
	raw := strings.TrimSpace(t.String(row, column))
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	return int64(t.Float(row, column))
}

// Bool returns the cell as a bool. Numeric cells are true when non zero.
func (t *Table) Bool(row int, column string) bool {
	raw := strings.TrimSpace(t.String(row, column))
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return t.Float(row, column) != 0
}

// Column returns every value of a numeric column
func (t *Table) Column(column string) []float64 {
	values := make([]float64, t.Len())
	for i := range values {
		values[i] = t.Float(i, column)
	}
	return values
}
