// Package parsererror defines the error and warning types produced while loading
// and preparing revenue tables.
package parsererror

import (
	"fmt"
	"strings"
)

// MissingColumnsError reports canonical fields that could not be resolved from the
// input columns under any accepted synonym. It is fatal: nothing is derived.
type MissingColumnsError struct {
	Fields []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Fields, ", "))
}

// PeriodParseWarning reports period values that could not be parsed into a month.
// The affected records are kept with the unknown period.
type PeriodParseWarning struct {
	Count  int
	Values []string
}

func (e *PeriodParseWarning) Error() string {
	return fmt.Sprintf("%d period value(s) could not be parsed as a month (YYYY-MM recommended): %s",
		e.Count, strings.Join(quoteAll(e.Values), ", "))
}

// ValueWarning reports a non-numeric cell in a numeric column. The value is
// carried as null for that record only.
type ValueWarning struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ValueWarning) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ValueWarning) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input file that cannot be read as a table.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("invalid format: %s. Expected: %s", e.Msg, e.ExpectedFormat)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("'%s'", v)
	}
	return out
}
