package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// RawTable is tabular input as read from a file: a header row and string cells.
// Column order is the order found in the source and matters for column matching.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}

// Cell returns the value at the given row and column, or an empty string when the
// row is shorter than the header.
func (t RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// NewRawTableFromMaps builds a RawTable from unordered records.
//
// Map keys carry no order, so the resulting columns are sorted lexicographically.
// Records missing a column get an empty cell.
func NewRawTableFromMaps(records []map[string]any) RawTable {
	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		for name := range rec {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	sort.Strings(columns)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, name := range columns {
			if v, ok := rec[name]; ok {
				row[i] = stringifyValue(v)
			}
		}
		rows = append(rows, row)
	}

	return RawTable{Columns: columns, Rows: rows}
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return decimal.NewFromFloat(val).String()
	case float32:
		return decimal.NewFromFloat32(val).String()
	case decimal.Decimal:
		return val.String()
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
