// Package kpi computes the read-only summary figures shown next to a prepared
// revenue table: total revenue, mean YoY and the best and worst months.
package kpi

import (
	"fjacquet/revenue-dash/internal/models"

	"github.com/shopspring/decimal"
)

// Summary holds the KPI figures of a prepared table.
type Summary struct {
	Months         int                     `json:"months" yaml:"months"`
	UnknownPeriods int                     `json:"unknown_periods" yaml:"unknown_periods"`
	TotalRevenue   decimal.Decimal         `json:"total_revenue" yaml:"total_revenue"`
	MeanYoY        decimal.NullDecimal     `json:"mean_yoy_percent" yaml:"mean_yoy_percent"`
	Highest        *models.CanonicalRecord `json:"-" yaml:"-"`
	Lowest         *models.CanonicalRecord `json:"-" yaml:"-"`
}

// Summarize computes every KPI in one pass over the records.
func Summarize(records []models.CanonicalRecord) Summary {
	s := Summary{
		Months:       len(records),
		TotalRevenue: TotalRevenue(records),
		MeanYoY:      MeanYoY(records),
		Highest:      MaxRevenue(records),
		Lowest:       MinRevenue(records),
	}
	for _, r := range records {
		if !r.Period.Valid {
			s.UnknownPeriods++
		}
	}
	return s
}

// TotalRevenue sums the non-null revenues.
func TotalRevenue(records []models.CanonicalRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Revenue.Valid {
			total = total.Add(r.Revenue.Decimal)
		}
	}
	return total
}

// MeanYoY averages the non-null YoY percentages. It is null when there is none.
func MeanYoY(records []models.CanonicalRecord) decimal.NullDecimal {
	sum := decimal.Zero
	count := 0
	for _, r := range records {
		if r.YoYPercent.Valid {
			sum = sum.Add(r.YoYPercent.Decimal)
			count++
		}
	}
	if count == 0 {
		return models.Null()
	}
	return models.Valid(sum.Div(decimal.NewFromInt(int64(count))))
}

// MaxRevenue returns the record with the highest revenue; the first one wins on ties.
// It returns nil when no record has a revenue.
func MaxRevenue(records []models.CanonicalRecord) *models.CanonicalRecord {
	return pick(records, func(candidate, best decimal.Decimal) bool {
		return candidate.GreaterThan(best)
	})
}

// MinRevenue returns the record with the lowest revenue; the first one wins on ties.
// It returns nil when no record has a revenue.
func MinRevenue(records []models.CanonicalRecord) *models.CanonicalRecord {
	return pick(records, func(candidate, best decimal.Decimal) bool {
		return candidate.LessThan(best)
	})
}

func pick(records []models.CanonicalRecord, better func(candidate, best decimal.Decimal) bool) *models.CanonicalRecord {
	var best *models.CanonicalRecord
	for i := range records {
		r := records[i]
		if !r.Revenue.Valid {
			continue
		}
		if best == nil || better(r.Revenue.Decimal, best.Revenue.Decimal) {
			best = &r
		}
	}
	return best
}
