package models

import "fmt"

// Field names one of the semantically required columns of a revenue table.
type Field string

const (
	FieldPeriod           Field = "period"
	FieldRevenue          Field = "revenue"
	FieldPriorYearRevenue Field = "prior_year_revenue"
	FieldYoYPercent       Field = "yoy_percent"
)

// RequiredFields lists the canonical fields in their declared order.
// Column matching, error reporting and output all follow this order.
var RequiredFields = []Field{
	FieldPeriod,
	FieldRevenue,
	FieldPriorYearRevenue,
	FieldYoYPercent,
}

// ParseField converts a raw string into a Field.
func ParseField(s string) (Field, error) {
	for _, f := range RequiredFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q (expected one of %v)", s, RequiredFields)
}
