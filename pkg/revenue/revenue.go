// Package revenue exposes the revenue preparation pipeline to other Go programs.
//
//	result, err := revenue.Prepare(revenue.Table{Columns: header, Rows: rows})
//	if err != nil {
//		var missing *revenue.MissingColumnsError
//		...
//	}
//	summary := revenue.Summarize(result.Records)
package revenue

import (
	"fjacquet/revenue-dash/internal/kpi"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/parsererror"
	"fjacquet/revenue-dash/internal/preparer"
)

type (
	// Table is a raw header-plus-rows table.
	Table = models.RawTable
	// Record is one prepared month.
	Record = models.CanonicalRecord
	// Field names a canonical column.
	Field = models.Field
	// Result holds the prepared records and the non-fatal warnings.
	Result = preparer.Result
	// Summary holds the KPI figures.
	Summary = kpi.Summary
	// SynonymTable maps canonical fields to accepted raw column names.
	SynonymTable = preparer.SynonymTable

	MissingColumnsError = parsererror.MissingColumnsError
	PeriodParseWarning  = parsererror.PeriodParseWarning
	ValueWarning        = parsererror.ValueWarning
)

// DefaultSynonyms returns the built-in synonym table.
func DefaultSynonyms() SynonymTable {
	return preparer.DefaultSynonyms()
}

// Prepare prepares a raw table with the built-in synonyms.
func Prepare(raw Table) (*Result, error) {
	return preparer.Prepare(raw, preparer.DefaultSynonyms())
}

// PrepareWithSynonyms prepares a raw table after adding extra accepted names to the
// built-in synonyms.
func PrepareWithSynonyms(raw Table, extra map[Field][]string) (*Result, error) {
	return preparer.Prepare(raw, preparer.DefaultSynonyms().Merge(extra))
}

// Summarize computes the KPI figures of prepared records.
func Summarize(records []Record) Summary {
	return kpi.Summarize(records)
}
