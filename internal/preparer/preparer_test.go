package preparer

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"
	"fjacquet/revenue-dash/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cryptoRandIntn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

func assertDecimal(t *testing.T, expected string, actual decimal.NullDecimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.True(t, actual.Valid, msgAndArgs...)
	assert.True(t, decimal.RequireFromString(expected).Equal(actual.Decimal),
		"expected %s, got %s", expected, actual.Decimal.String())
}

func labels(records []models.CanonicalRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.PeriodLabel
	}
	return out
}

func englishTable() models.RawTable {
	return models.RawTable{
		Columns: []string{"month", "Revenue", "PY", "YoY"},
		Rows: [][]string{
			{"2024-01", "12000000", "10500000", "14.3"},
			{"2024-02", "13500000", "11200000", "20.5"},
		},
	}
}

func TestNormalizeColumns_SynonymSpellings(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
	}{
		{"korean", []string{"월", "매출액", "전년동월", "증감률"}},
		{"english lower", []string{"month", "revenue", "last_year", "yoy"}},
		{"english mixed", []string{"Month", "Revenue", "PY", "YoY"}},
		{"canonical", []string{"period", "revenue", "prior_year_revenue", "yoy_percent"}},
		{"shuffled with padding", []string{" YoY", "PY ", "\tRevenue", " 월 "}},
		{"extra columns", []string{"region", "month", "note", "Revenue", "PY", "YoY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NormalizeColumns(models.RawTable{Columns: tt.columns}, DefaultSynonyms())
			require.NoError(t, err)
			assert.Equal(t, []string{"period", "revenue", "prior_year_revenue", "yoy_percent"}, table.CanonicalColumns())
		})
	}
}

func TestNormalizeColumns_RenamesOnlyMatchedColumns(t *testing.T) {
	raw := models.RawTable{Columns: []string{"region", " Month", "Revenue", "PY", "YoY"}}

	table, err := NormalizeColumns(raw, DefaultSynonyms())
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "period", "revenue", "prior_year_revenue", "yoy_percent"}, table.Columns)
	assert.Equal(t, " Month", raw.Columns[1], "input header must not be modified")
}

func TestNormalizeColumns_FirstMatchWins(t *testing.T) {
	raw := models.RawTable{
		Columns: []string{"Month", "revenue", "month", "PY", "YoY", "Revenue"},
		Rows:    [][]string{{"2024-01", "1", "2099-12", "0", "0", "2"}},
	}

	table, err := NormalizeColumns(raw, DefaultSynonyms())
	require.NoError(t, err)

	idx, ok := table.Index(models.FieldPeriod)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	idx, _ = table.Index(models.FieldRevenue)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "month", table.Columns[2], "second period synonym keeps its raw name")
	assert.Equal(t, "2024-01", table.Value(0, models.FieldPeriod))
}

func TestNormalizeColumns_ClaimedColumnIsNotReused(t *testing.T) {
	synonyms := SynonymTable{
		{Field: models.FieldPeriod, Names: []string{"a"}},
		{Field: models.FieldRevenue, Names: []string{"a", "b"}},
		{Field: models.FieldPriorYearRevenue, Names: []string{"c"}},
		{Field: models.FieldYoYPercent, Names: []string{"d"}},
	}

	table, err := NormalizeColumns(models.RawTable{Columns: []string{"a", "b", "c", "d"}}, synonyms)
	require.NoError(t, err)

	idx, _ := table.Index(models.FieldRevenue)
	assert.Equal(t, 1, idx)
}

func TestNormalizeColumns_CaseSensitive(t *testing.T) {
	_, err := NormalizeColumns(models.RawTable{Columns: []string{"MONTH", "Revenue", "PY", "YoY"}}, DefaultSynonyms())

	var missing *parsererror.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"period"}, missing.Fields)
}

func TestPrepare_MissingColumns(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		expected []string
	}{
		{"two missing", []string{"month", "Revenue"}, []string{"prior_year_revenue", "yoy_percent"}},
		{"all missing", []string{"date", "sales"}, []string{"period", "revenue", "prior_year_revenue", "yoy_percent"}},
		{"empty header", nil, []string{"period", "revenue", "prior_year_revenue", "yoy_percent"}},
		{"only yoy missing", []string{"월", "매출액", "전년동월", "growth"}, []string{"yoy_percent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := models.RawTable{Columns: tt.columns, Rows: [][]string{make([]string, len(tt.columns))}}

			result, err := Prepare(raw, DefaultSynonyms())
			assert.Nil(t, result, "no derived output on fatal error")

			var missing *parsererror.MissingColumnsError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.expected, missing.Fields)
		})
	}
}

func TestPrepare_EndToEndExample(t *testing.T) {
	result, err := Prepare(englishTable(), DefaultSynonyms())
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Records, 2)
	assert.Equal(t, []string{"2024-01", "2024-02"}, labels(result.Records))
	assertDecimal(t, "1500000", result.Records[0].Delta)
	assertDecimal(t, "2300000", result.Records[1].Delta)
	assertDecimal(t, "12000000", result.Records[0].CumulativeRevenue)
	assertDecimal(t, "25500000", result.Records[1].CumulativeRevenue)
	assertDecimal(t, "14.3", result.Records[0].YoYPercent)
	assert.Equal(t, 1, result.Records[0].Row)
}

func TestPrepare_EndToEndFromMaps(t *testing.T) {
	raw := models.NewRawTableFromMaps([]map[string]any{
		{"month": "2024-01", "Revenue": 12000000, "PY": 10500000, "YoY": 14.3},
		{"month": "2024-02", "Revenue": 13500000, "PY": 11200000, "YoY": 20.5},
	})
	require.Equal(t, []string{"PY", "Revenue", "YoY", "month"}, raw.Columns)

	result, err := Prepare(raw, DefaultSynonyms())
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Records, 2)
	assert.Equal(t, []string{"2024-01", "2024-02"}, labels(result.Records))
	assertDecimal(t, "1500000", result.Records[0].Delta)
	assertDecimal(t, "2300000", result.Records[1].Delta)
	assertDecimal(t, "12000000", result.Records[0].CumulativeRevenue)
	assertDecimal(t, "25500000", result.Records[1].CumulativeRevenue)
	assertDecimal(t, "20.5", result.Records[1].YoYPercent)
}

func TestPrepare_SortsByPeriod(t *testing.T) {
	raw := models.RawTable{
		Columns: []string{"period", "revenue", "PY", "yoy"},
		Rows: [][]string{
			{"2024-03", "30", "20", "50"},
			{"2024-01", "10", "5", "100"},
			{"2024-02", "20", "25", "-20"},
		},
	}

	result, err := Prepare(raw, DefaultSynonyms())
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, labels(result.Records))
	assert.Equal(t, []int{2, 3, 1}, []int{result.Records[0].Row, result.Records[1].Row, result.Records[2].Row})
	assertDecimal(t, "10", result.Records[0].CumulativeRevenue)
	assertDecimal(t, "30", result.Records[1].CumulativeRevenue)
	assertDecimal(t, "60", result.Records[2].CumulativeRevenue)
	assertDecimal(t, "-5", result.Records[1].Delta)
}

func TestPrepare_UnparsablePeriod(t *testing.T) {
	raw := models.RawTable{
		Columns: []string{"month", "Revenue", "PY", "YoY"},
		Rows: [][]string{
			{"not-a-date", "5", "4", "25"},
			{"2024-02", "20", "10", "100"},
			{"2024-01", "10", "10", "0"},
		},
	}

	result, err := Prepare(raw, DefaultSynonyms())
	require.NoError(t, err)

	pw := result.PeriodWarning()
	require.NotNil(t, pw)
	assert.Equal(t, 1, pw.Count)
	assert.Equal(t, []string{"not-a-date"}, pw.Values)

	require.Len(t, result.Records, 3)
	assert.Equal(t, []string{"2024-01", "2024-02", ""}, labels(result.Records))
	last := result.Records[2]
	assert.False(t, last.Period.Valid)
	assert.Equal(t, 1, last.Row)
	assertDecimal(t, "35", last.CumulativeRevenue, "unknown-period rows still take part in the running sum")
	assertDecimal(t, "1", last.Delta)
}

func TestPrepare_UnknownPeriodsKeepInputOrder(t *testing.T) {
	raw := models.RawTable{
		Columns: []string{"month", "Revenue", "PY", "YoY"},
		Rows: [][]string{
			{"??", "1", "0", "0"},
			{"2024-05", "2", "0", "0"},
			{"", "3", "0", "0"},
			{"later", "4", "0", "0"},
		},
	}

	result, err := Prepare(raw, DefaultSynonyms())
	require.NoError(t, err)

	rows := make([]int, len(result.Records))
	for i, r := range result.Records {
		rows[i] = r.Row
	}
	assert.Equal(t, []int{2, 1, 3, 4}, rows)
	assert.Equal(t, 3, result.PeriodWarning().Count)
}

func TestPrepare_NonNumericValues(t *testing.T) {
	raw := models.RawTable{
		Columns: []string{"month", "Revenue", "PY", "YoY"},
		Rows: [][]string{
			{"2024-01", "100", "90", "11.1"},
			{"2024-02", "n/a", "80", "oops"},
			{"2024-03", "50", "", "1"},
		},
	}

	result, err := Prepare(raw, DefaultSynonyms())
	require.NoError(t, err)
	assert.Nil(t, result.PeriodWarning())

	vws := result.ValueWarnings()
	require.Len(t, vws, 3)
	assert.Equal(t, 2, vws[0].Row)
	assert.Equal(t, "revenue", vws[0].Field)
	assert.Equal(t, "n/a", vws[0].Value)
	assert.Equal(t, "yoy_percent", vws[1].Field)
	assert.Equal(t, 3, vws[2].Row)
	assert.Equal(t, "prior_year_revenue", vws[2].Field)

	feb := result.Records[1]
	assert.False(t, feb.Revenue.Valid)
	assert.False(t, feb.Delta.Valid)
	assert.False(t, feb.CumulativeRevenue.Valid)
	assert.False(t, feb.YoYPercent.Valid)

	mar := result.Records[2]
	assert.False(t, mar.Delta.Valid)
	assertDecimal(t, "150", mar.CumulativeRevenue)
}

func TestPrepare_ShortRowsReadAsEmpty(t *testing.T) {
	raw := models.RawTable{
		Columns: []string{"month", "Revenue", "PY", "YoY"},
		Rows:    [][]string{{"2024-01", "100"}},
	}

	result, err := Prepare(raw, DefaultSynonyms())
	require.NoError(t, err)
	assert.Len(t, result.ValueWarnings(), 2)
	assertDecimal(t, "100", result.Records[0].CumulativeRevenue)
}

func TestPrepare_EmptyTable(t *testing.T) {
	result, err := Prepare(models.RawTable{Columns: []string{"month", "Revenue", "PY", "YoY"}}, DefaultSynonyms())
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Warnings)
}

func TestPrepare_Idempotent(t *testing.T) {
	raw := models.RawTable{
		Columns: []string{"month", "Revenue", "PY", "YoY"},
		Rows: [][]string{
			{"2024-02", "13500000", "11200000", "20.5"},
			{"bad", "1", "x", "2"},
			{"2024-01", "12000000", "10500000", "14.3"},
		},
	}

	first, err := Prepare(raw, DefaultSynonyms())
	require.NoError(t, err)
	second, err := Prepare(raw, DefaultSynonyms())
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestDeriveMetrics_DoesNotMutateInput(t *testing.T) {
	in := []models.CanonicalRecord{
		{Revenue: models.Valid(decimal.NewFromInt(5)), PriorYearRevenue: models.Valid(decimal.NewFromInt(3))},
	}

	out := DeriveMetrics(in)

	assert.False(t, in[0].Delta.Valid)
	assert.False(t, in[0].CumulativeRevenue.Valid)
	assertDecimal(t, "2", out[0].Delta)
	assertDecimal(t, "5", out[0].CumulativeRevenue)
}

// Property: for any table, cumulative_revenue[i] == sum(revenue[0..i]) and
// delta[i] == revenue[i] - prior_year_revenue[i], in sorted period order.
func TestProperty_PrefixSumAndDelta(t *testing.T) {
	for i := 0; i < 100; i++ {
		t.Run(fmt.Sprintf("iteration_%d", i), func(t *testing.T) {
			n := cryptoRandIntn(24) + 1
			raw := models.RawTable{Columns: []string{"Month", "Revenue", "PY", "YoY"}}
			for r := 0; r < n; r++ {
				raw.Rows = append(raw.Rows, []string{
					fmt.Sprintf("%d-%02d", 2020+cryptoRandIntn(5), cryptoRandIntn(12)+1),
					fmt.Sprintf("%d", cryptoRandIntn(50_000_000)),
					fmt.Sprintf("%d.%02d", cryptoRandIntn(50_000_000), cryptoRandIntn(100)),
					fmt.Sprintf("%d.%d", cryptoRandIntn(60)-30, cryptoRandIntn(10)),
				})
			}

			result, err := Prepare(raw, DefaultSynonyms())
			require.NoError(t, err)
			require.Len(t, result.Records, n)

			sum := decimal.Zero
			for idx, rec := range result.Records {
				sum = sum.Add(rec.Revenue.Decimal)
				assert.True(t, sum.Equal(rec.CumulativeRevenue.Decimal), "prefix sum at %d", idx)
				assert.True(t, rec.Revenue.Decimal.Sub(rec.PriorYearRevenue.Decimal).Equal(rec.Delta.Decimal), "delta at %d", idx)
				if idx > 0 {
					assert.False(t, rec.Period.Before(result.Records[idx-1].Period), "records out of order at %d", idx)
				}
			}
		})
	}
}

func TestSynonymTable_Merge(t *testing.T) {
	base := DefaultSynonyms()
	merged := base.Merge(map[models.Field][]string{
		models.FieldRevenue: {"Sales", "revenue", "  "},
		models.FieldPeriod:  {"Date"},
	})

	assert.Equal(t, []string{"매출액", "revenue", "Revenue", "Sales"}, merged.Names(models.FieldRevenue))
	assert.Equal(t, []string{"월", "period", "month", "Month", "period_label", "Date"}, merged.Names(models.FieldPeriod))
	assert.Equal(t, []string{"매출액", "revenue", "Revenue"}, base.Names(models.FieldRevenue), "base table untouched")

	table, err := NormalizeColumns(models.RawTable{Columns: []string{"Date", "Sales", "PY", "YoY"}}, merged)
	require.NoError(t, err)
	assert.Len(t, table.CanonicalColumns(), 4)
}

func TestSynonymTable_MergeAddsMissingField(t *testing.T) {
	partial := SynonymTable{{Field: models.FieldPeriod, Names: []string{"month"}}}
	merged := partial.Merge(map[models.Field][]string{models.FieldYoYPercent: {"growth"}})

	require.Len(t, merged, 2)
	assert.Equal(t, models.FieldYoYPercent, merged[1].Field)
	assert.True(t, merged.Accepts(models.FieldYoYPercent, " growth "))
	assert.False(t, merged.Accepts(models.FieldRevenue, "revenue"))
}

func TestSynonymTable_MergeIgnoresNameOfAnotherField(t *testing.T) {
	merged := DefaultSynonyms().Merge(map[models.Field][]string{
		models.FieldPeriod:     {"Revenue"},
		models.FieldYoYPercent: {"growth"},
		models.FieldRevenue:    {"growth"},
	})

	assert.False(t, merged.Accepts(models.FieldPeriod, "Revenue"))
	assert.True(t, merged.Accepts(models.FieldRevenue, "Revenue"))
	assert.True(t, merged.Accepts(models.FieldRevenue, "growth"), "earlier field in table order keeps the name")
	assert.False(t, merged.Accepts(models.FieldYoYPercent, "growth"))

	table, err := NormalizeColumns(models.RawTable{Columns: []string{"Revenue", "month", "PY", "YoY"}}, merged)
	require.NoError(t, err)
	idx, ok := table.Index(models.FieldRevenue)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestSynonymTable_FieldOf(t *testing.T) {
	table := DefaultSynonyms()

	field, ok := table.FieldOf(" PY ")
	require.True(t, ok)
	assert.Equal(t, models.FieldPriorYearRevenue, field)

	_, ok = table.FieldOf("sales")
	assert.False(t, ok)
}

func TestPreparer_LogsWarnings(t *testing.T) {
	logger := logging.NewMockLogger()
	p := NewPreparer(nil, logger)

	raw := englishTable()
	raw.Rows = append(raw.Rows, []string{"not-a-date", "x", "1", "2"})

	result, err := p.Prepare(raw)
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 2)

	warns := logger.GetEntriesByLevel("WARN")
	require.Len(t, warns, 2)
	assert.Contains(t, warns[0].Message, "could not be parsed")
	assert.Equal(t, "Non-numeric value treated as missing", warns[1].Message)
	assert.True(t, logger.HasEntry("INFO", "Prepared revenue table"))
}

func TestPreparer_LogsMissingColumns(t *testing.T) {
	logger := logging.NewMockLogger()
	p := NewPreparer(DefaultSynonyms(), logger)

	_, err := p.Prepare(models.RawTable{Columns: []string{"month"}})
	require.Error(t, err)

	errs := logger.GetEntriesByLevel("ERROR")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Fields, logging.F(logging.FieldMissing, []string{"revenue", "prior_year_revenue", "yoy_percent"}))
}
