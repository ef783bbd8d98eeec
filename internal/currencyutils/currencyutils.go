// Package currencyutils parses and formats the won amounts and percentages of a revenue table.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WonUnit is the suffix used by FormatWon.
const WonUnit = "원"

// ErrEmptyAmount is returned by ParseAmount for blank cells.
var ErrEmptyAmount = errors.New("empty value")

var (
	hundredMillion = decimal.NewFromInt(100_000_000)
	symbols        = regexp.MustCompile(`(?i)(KRW|원|₩|%|\s)`)
	printer        = message.NewPrinter(language.Korean)
)

// ParseAmount parses a numeric cell into a decimal value.
// It accepts "12000000", "12,000,000", "12,000,000 원", "₩12000000", "14.3", "14.3%" and "-14,1".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount strips currency markers and thousands separators so the result
// can be parsed by decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	amountStr = symbols.ReplaceAllString(amountStr, "")

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// 1.234,56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234.56
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// 1234,56
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234 or 12,000,000
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return strings.ReplaceAll(amountStr, "'", "")
}

// FormatWon renders an amount as "12,000,000 원". Fractions are truncated toward zero.
func FormatWon(amount decimal.Decimal) string {
	return printer.Sprintf("%d %s", amount.Truncate(0).IntPart(), WonUnit)
}

// FormatNullableWon renders a nullable amount, using "-" for null.
func FormatNullableWon(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return "-"
	}
	return FormatWon(amount.Decimal)
}

// AxisTick renders a chart axis value: amounts of at least 1억 (1e8) are shown in
// 억 with one decimal ("1.2억"), smaller ones as grouped integers.
func AxisTick(amount decimal.Decimal) string {
	if amount.Abs().GreaterThanOrEqual(hundredMillion) {
		return amount.Div(hundredMillion).StringFixed(1) + "억"
	}
	return printer.Sprintf("%d", amount.Truncate(0).IntPart())
}

// FormatPercent renders a percentage with one decimal ("14.3%"), or "-" for null.
func FormatPercent(pct decimal.NullDecimal) string {
	if !pct.Valid {
		return "-"
	}
	return pct.Decimal.StringFixed(1) + "%"
}
