package models

import (
	"time"

	"fjacquet/revenue-dash/internal/dateutils"
)

// Period identifies a calendar month. The zero value is the unknown period, used
// when the source value could not be parsed.
type Period struct {
	Year  int
	Month time.Month
	Valid bool
}

// NewPeriod returns a valid period for the given year and month.
func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month, Valid: true}
}

// UnknownPeriod returns the sentinel period.
func UnknownPeriod() Period {
	return Period{}
}

// Label returns the period as YYYY-MM, or an empty string for the unknown period.
func (p Period) Label() string {
	if !p.Valid {
		return ""
	}
	return dateutils.FormatPeriod(p.Year, p.Month)
}

// String implements fmt.Stringer.
func (p Period) String() string {
	if !p.Valid {
		return "unknown"
	}
	return p.Label()
}

// Compare orders periods chronologically; the unknown period sorts after every valid one.
// It returns -1, 0 or 1.
func (p Period) Compare(other Period) int {
	switch {
	case !p.Valid && !other.Valid:
		return 0
	case !p.Valid:
		return 1
	case !other.Valid:
		return -1
	}
	a := p.Year*12 + int(p.Month)
	b := other.Year*12 + int(other.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether p sorts strictly before other.
func (p Period) Before(other Period) bool {
	return p.Compare(other) < 0
}
