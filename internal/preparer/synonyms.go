package preparer

import (
	"strings"

	"fjacquet/revenue-dash/internal/models"
)

// SynonymEntry lists the raw column names accepted for one canonical field.
type SynonymEntry struct {
	Field models.Field
	Names []string
}

// SynonymTable maps each canonical field to its accepted raw names. Entries are
// kept in declared order, and so are the names inside each entry.
type SynonymTable []SynonymEntry

// DefaultSynonyms returns the built-in table: the Korean headers of the monthly
// sales sheet, the canonical names themselves, and the English aliases.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		{Field: models.FieldPeriod, Names: []string{"월", "period", "month", "Month", "period_label"}},
		{Field: models.FieldRevenue, Names: []string{"매출액", "revenue", "Revenue"}},
		{Field: models.FieldPriorYearRevenue, Names: []string{"전년동월", "prior_year_revenue", "last_year", "PY"}},
		{Field: models.FieldYoYPercent, Names: []string{"증감률", "yoy_percent", "yoy", "YoY"}},
	}
}

// Names returns the synonyms declared for a field.
func (t SynonymTable) Names(field models.Field) []string {
	for _, entry := range t {
		if entry.Field == field {
			return entry.Names
		}
	}
	return nil
}

// Accepts reports whether the trimmed column name is a synonym of field.
// Comparison is case-sensitive.
func (t SynonymTable) Accepts(field models.Field, column string) bool {
	name := strings.TrimSpace(column)
	for _, synonym := range t.Names(field) {
		if synonym == name {
			return true
		}
	}
	return false
}

// FieldOf returns the first field, in table order, that accepts the trimmed column name.
func (t SynonymTable) FieldOf(column string) (models.Field, bool) {
	for _, entry := range t {
		if t.Accepts(entry.Field, column) {
			return entry.Field, true
		}
	}
	return "", false
}

// Merge returns a copy of the table with extra names appended after the existing
// ones. Duplicates and blank names are ignored, and so is a name already accepted
// by another field, since one column can only resolve one field. Fields absent
// from the table are added in models.RequiredFields order.
func (t SynonymTable) Merge(extra map[models.Field][]string) SynonymTable {
	merged := make(SynonymTable, 0, len(models.RequiredFields))
	seenFields := make(map[models.Field]bool)

	owner := make(map[string]models.Field)
	for _, entry := range t {
		for _, n := range entry.Names {
			if _, ok := owner[n]; !ok {
				owner[n] = entry.Field
			}
		}
	}

	appendNames := func(entry SynonymEntry, names []string) SynonymEntry {
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			if _, taken := owner[n]; taken {
				continue
			}
			owner[n] = entry.Field
			entry.Names = append(entry.Names, n)
		}
		return entry
	}

	for _, entry := range t {
		copied := SynonymEntry{Field: entry.Field, Names: append([]string(nil), entry.Names...)}
		merged = append(merged, appendNames(copied, extra[entry.Field]))
		seenFields[entry.Field] = true
	}
	for _, field := range models.RequiredFields {
		if seenFields[field] || len(extra[field]) == 0 {
			continue
		}
		merged = append(merged, appendNames(SynonymEntry{Field: field}, extra[field]))
	}

	return merged
}
