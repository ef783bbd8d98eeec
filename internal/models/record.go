package models

import "github.com/shopspring/decimal"

// CanonicalRecord is one month of prepared revenue data.
//
// Numeric fields are null when the source cell was not numeric (or, for derived
// fields, when an input they depend on was null).
type CanonicalRecord struct {
	Period            Period
	PeriodLabel       string
	Revenue           decimal.NullDecimal
	PriorYearRevenue  decimal.NullDecimal
	YoYPercent        decimal.NullDecimal
	Delta             decimal.NullDecimal
	CumulativeRevenue decimal.NullDecimal

	// Row is the 1-based data row in the source table.
	Row int
}

// Valid wraps a decimal into a non-null NullDecimal.
func Valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Null returns a null decimal.
func Null() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// FormatNullable renders a NullDecimal for tabular output; null becomes an empty string.
func FormatNullable(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
