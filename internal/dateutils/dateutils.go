// Package dateutils provides the month/period parsing used when preparing revenue tables.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Period layout constants
const (
	LayoutYearMonth     = "2006-01"
	LayoutISO           = "2006-01-02"
	LayoutFull          = "2006-01-02 15:04:05"
	LayoutKoreanMonth   = "2006년 1월"
	LayoutEnglishMonth  = "Jan 2006"
	LayoutCompactPeriod = "200601"
	// LayoutExcelDate is the text spreadsheet tools show for a date cell with the
	// default m/d/yy number format.
	LayoutExcelDate = "1/2/06"
)

// PeriodLayouts is the ordered list of layouts tried by ParsePeriod.
var PeriodLayouts = []string{
	LayoutYearMonth,
	"2006-1",
	"2006/01",
	"2006/1",
	"2006.01",
	"2006.1",
	LayoutCompactPeriod,
	LayoutISO,
	"2006/01/02",
	"2006.01.02",
	LayoutExcelDate,
	"1/2/06 15:04",
	"1/2/2006",
	LayoutFull,
	time.RFC3339,
	LayoutEnglishMonth,
	"January 2006",
	LayoutKoreanMonth,
	"2006년 01월",
	"2006년1월",
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims surrounding whitespace and collapses inner runs to one space.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParsePeriod parses a string into a calendar month. Day and time components, when
// present, are validated and then dropped.
func ParsePeriod(value string) (int, time.Month, error) {
	cleaned := CleanDateString(value)
	if cleaned == "" {
		return 0, 0, fmt.Errorf("empty period value")
	}

	for _, layout := range PeriodLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Year(), t.Month(), nil
		}
	}

	return 0, 0, fmt.Errorf("unable to parse period: %s", value)
}

// FormatPeriod renders a year and month as YYYY-MM.
func FormatPeriod(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(LayoutYearMonth)
}
