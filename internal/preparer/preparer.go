// Package preparer turns a raw revenue table into canonical monthly records.
//
// Preparation runs in three steps:
//
//	NormalizeColumns  resolve the four canonical fields through the synonym table
//	ParseAndOrder     type the cells and sort by period (unknown periods last)
//	DeriveMetrics     compute delta and cumulative revenue
//
// The package-level functions are pure; Preparer wraps them with logging.
package preparer

import (
	"errors"
	"sort"
	"strings"

	"fjacquet/revenue-dash/internal/currencyutils"
	"fjacquet/revenue-dash/internal/dateutils"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/parsererror"

	"github.com/shopspring/decimal"
)

// NormalizedTable is a raw table whose canonical columns have been resolved.
type NormalizedTable struct {
	// Columns is the header after renaming; unmatched columns keep their raw name.
	Columns []string
	Rows    [][]string

	index map[models.Field]int
}

// Index returns the column position of a canonical field.
func (t *NormalizedTable) Index(field models.Field) (int, bool) {
	i, ok := t.index[field]
	return i, ok
}

// CanonicalColumns returns the canonical field names present, in declared order.
func (t *NormalizedTable) CanonicalColumns() []string {
	var names []string
	for _, field := range models.RequiredFields {
		if _, ok := t.index[field]; ok {
			names = append(names, string(field))
		}
	}
	return names
}

// Value returns the cell of a canonical field in a row.
func (t *NormalizedTable) Value(row int, field models.Field) string {
	col, ok := t.index[field]
	if !ok || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Result is the outcome of a successful preparation.
type Result struct {
	Records []models.CanonicalRecord
	// Warnings holds *parsererror.PeriodParseWarning and *parsererror.ValueWarning values.
	Warnings []error
}

// PeriodWarning returns the period parse warning, if any.
func (r *Result) PeriodWarning() *parsererror.PeriodParseWarning {
	for _, w := range r.Warnings {
		var pw *parsererror.PeriodParseWarning
		if errors.As(w, &pw) {
			return pw
		}
	}
	return nil
}

// ValueWarnings returns the per-cell numeric warnings.
func (r *Result) ValueWarnings() []*parsererror.ValueWarning {
	var out []*parsererror.ValueWarning
	for _, w := range r.Warnings {
		var vw *parsererror.ValueWarning
		if errors.As(w, &vw) {
			out = append(out, vw)
		}
	}
	return out
}

// NormalizeColumns resolves each canonical field to the first raw column (in file
// order) whose trimmed name is one of the field's synonyms. A column claimed by an
// earlier field is not considered again. If any field stays unresolved, a
// *parsererror.MissingColumnsError naming exactly those fields is returned.
func NormalizeColumns(raw models.RawTable, synonyms SynonymTable) (*NormalizedTable, error) {
	columns := make([]string, len(raw.Columns))
	copy(columns, raw.Columns)

	index := make(map[models.Field]int, len(models.RequiredFields))
	claimed := make(map[int]bool, len(models.RequiredFields))
	var missing []string

	for _, field := range models.RequiredFields {
		found := false
		for i, col := range raw.Columns {
			if claimed[i] || !synonyms.Accepts(field, col) {
				continue
			}
			index[field] = i
			claimed[i] = true
			columns[i] = string(field)
			found = true
			break
		}
		if !found {
			missing = append(missing, string(field))
		}
	}

	if len(missing) > 0 {
		return nil, &parsererror.MissingColumnsError{Fields: missing}
	}

	return &NormalizedTable{Columns: columns, Rows: raw.Rows, index: index}, nil
}

// ParseAndOrder types every row of a normalized table and sorts the records by
// period. Rows whose period cannot be parsed keep the unknown period, sort after all
// others (ties keep input order) and are reported in a single PeriodParseWarning.
// Non-numeric cells become null and are reported as ValueWarnings.
func ParseAndOrder(table *NormalizedTable) ([]models.CanonicalRecord, []error) {
	records := make([]models.CanonicalRecord, 0, len(table.Rows))
	var valueWarnings []error
	var badPeriods []string

	for i := range table.Rows {
		rowNum := i + 1
		rec := models.CanonicalRecord{Row: rowNum}

		rawPeriod := table.Value(i, models.FieldPeriod)
		if year, month, err := dateutils.ParsePeriod(rawPeriod); err == nil {
			rec.Period = models.NewPeriod(year, month)
		} else {
			rec.Period = models.UnknownPeriod()
			badPeriods = append(badPeriods, strings.TrimSpace(rawPeriod))
		}
		rec.PeriodLabel = rec.Period.Label()

		var w error
		rec.Revenue, w = parseNumeric(table, i, models.FieldRevenue)
		valueWarnings = appendWarning(valueWarnings, w)
		rec.PriorYearRevenue, w = parseNumeric(table, i, models.FieldPriorYearRevenue)
		valueWarnings = appendWarning(valueWarnings, w)
		rec.YoYPercent, w = parseNumeric(table, i, models.FieldYoYPercent)
		valueWarnings = appendWarning(valueWarnings, w)

		records = append(records, rec)
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].Period.Before(records[b].Period)
	})

	var warnings []error
	if len(badPeriods) > 0 {
		warnings = append(warnings, &parsererror.PeriodParseWarning{Count: len(badPeriods), Values: badPeriods})
	}
	return records, append(warnings, valueWarnings...)
}

// DeriveMetrics returns a copy of the ordered records with Delta and
// CumulativeRevenue filled in. Null revenues are skipped by the running sum and
// leave a null cumulative value at their own position.
func DeriveMetrics(records []models.CanonicalRecord) []models.CanonicalRecord {
	out := make([]models.CanonicalRecord, len(records))
	copy(out, records)

	running := models.Valid(decimal.Zero)
	for i := range out {
		rec := &out[i]

		if rec.Revenue.Valid && rec.PriorYearRevenue.Valid {
			rec.Delta = models.Valid(rec.Revenue.Decimal.Sub(rec.PriorYearRevenue.Decimal))
		} else {
			rec.Delta = models.Null()
		}

		if rec.Revenue.Valid {
			running = models.Valid(running.Decimal.Add(rec.Revenue.Decimal))
			rec.CumulativeRevenue = running
		} else {
			rec.CumulativeRevenue = models.Null()
		}
	}

	return out
}

// Prepare runs the full pipeline. A MissingColumnsError aborts before any record is
// built; every other data problem is returned in Result.Warnings.
func Prepare(raw models.RawTable, synonyms SynonymTable) (*Result, error) {
	table, err := NormalizeColumns(raw, synonyms)
	if err != nil {
		return nil, err
	}

	ordered, warnings := ParseAndOrder(table)
	return &Result{
		Records:  DeriveMetrics(ordered),
		Warnings: warnings,
	}, nil
}

func parseNumeric(table *NormalizedTable, row int, field models.Field) (decimal.NullDecimal, error) {
	value := table.Value(row, field)
	amount, err := currencyutils.ParseAmount(value)
	if err != nil {
		return models.Null(), &parsererror.ValueWarning{
			Row:   row + 1,
			Field: string(field),
			Value: value,
			Err:   err,
		}
	}
	return models.Valid(amount), nil
}

func appendWarning(warnings []error, w error) []error {
	if w == nil {
		return warnings
	}
	return append(warnings, w)
}
