// Package report renders the KPI summary and preview of a prepared revenue table.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"fjacquet/revenue-dash/internal/common"
	"fjacquet/revenue-dash/internal/currencyutils"
	"fjacquet/revenue-dash/internal/kpi"
	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// MonthRef points at one month of the table, for the highest and lowest KPI cards.
type MonthRef struct {
	Period  string `json:"period" yaml:"period"`
	Revenue string `json:"revenue" yaml:"revenue"`
}

// Report is the serializable form of a KPI summary.
type Report struct {
	Source         string              `json:"source,omitempty" yaml:"source,omitempty"`
	Months         int                 `json:"months" yaml:"months"`
	UnknownPeriods int                 `json:"unknown_periods" yaml:"unknown_periods"`
	TotalRevenue   string              `json:"total_revenue" yaml:"total_revenue"`
	MeanYoYPercent string              `json:"mean_yoy_percent,omitempty" yaml:"mean_yoy_percent,omitempty"`
	Highest        *MonthRef           `json:"highest,omitempty" yaml:"highest,omitempty"`
	Lowest         *MonthRef           `json:"lowest,omitempty" yaml:"lowest,omitempty"`
	Records        []common.PreviewRow `json:"records" yaml:"records"`
	Warnings       []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Insight        string              `json:"insight,omitempty" yaml:"insight,omitempty"`
}

// Input is everything a report is built from.
type Input struct {
	Source   string
	Summary  kpi.Summary
	Records  []models.CanonicalRecord
	Warnings []error
	Insight  string
}

// NewReport converts an Input into its serializable form. Amounts are plain
// decimal strings; the text format applies won formatting on top.
func NewReport(in Input) *Report {
	r := &Report{
		Source:         in.Source,
		Months:         in.Summary.Months,
		UnknownPeriods: in.Summary.UnknownPeriods,
		TotalRevenue:   in.Summary.TotalRevenue.String(),
		MeanYoYPercent: roundedPercent(in.Summary.MeanYoY),
		Highest:        monthRef(in.Summary.Highest),
		Lowest:         monthRef(in.Summary.Lowest),
		Records:        common.NewPreviewRows(in.Records),
		Insight:        in.Insight,
	}
	for _, w := range in.Warnings {
		r.Warnings = append(r.Warnings, w.Error())
	}
	return r
}

// roundedPercent keeps two decimals; the mean of one-decimal percentages rarely
// terminates.
func roundedPercent(pct decimal.NullDecimal) string {
	if !pct.Valid {
		return ""
	}
	return pct.Decimal.Round(2).String()
}

func monthRef(rec *models.CanonicalRecord) *MonthRef {
	if rec == nil {
		return nil
	}
	return &MonthRef{Period: periodName(rec), Revenue: models.FormatNullable(rec.Revenue)}
}

func periodName(rec *models.CanonicalRecord) string {
	if rec.PeriodLabel == "" {
		return rec.Period.String()
	}
	return rec.PeriodLabel
}

// ReportGenerator renders reports in the supported formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ReportGenerator{logger: logger.WithField("component", "ReportGenerator")}
}

// GenerateReport renders the input as text, json or yaml.
func (g *ReportGenerator) GenerateReport(in Input, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return g.generateTextReport(in)
	case FormatJSON:
		return g.generateJSONReport(NewReport(in))
	case FormatYAML, "yml":
		return g.generateYAMLReport(NewReport(in))
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(report *Report) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *ReportGenerator) generateYAMLReport(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

// generateTextReport writes the KPI cards followed by the preview table.
func (g *ReportGenerator) generateTextReport(in Input) ([]byte, error) {
	var buf bytes.Buffer
	s := in.Summary

	if in.Source != "" {
		fmt.Fprintf(&buf, "Source: %s\n\n", in.Source)
	}

	cards := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(cards, "Total revenue\t%s (%s)\n", currencyutils.FormatWon(s.TotalRevenue), currencyutils.AxisTick(s.TotalRevenue))
	fmt.Fprintf(cards, "Mean YoY\t%s\n", currencyutils.FormatPercent(s.MeanYoY))
	fmt.Fprintf(cards, "Highest month\t%s\n", cardValue(s.Highest))
	fmt.Fprintf(cards, "Lowest month\t%s\n", cardValue(s.Lowest))
	fmt.Fprintf(cards, "Months\t%d\n", s.Months)
	if s.UnknownPeriods > 0 {
		fmt.Fprintf(cards, "Unknown periods\t%d\n", s.UnknownPeriods)
	}
	if err := cards.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write text report: %w", err)
	}

	buf.WriteString("\n")
	table := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(table, "Period\tRevenue\tPrior year\tYoY\tDelta\tCumulative\t")
	for _, row := range common.FormatPreviewRows(in.Records) {
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			row.PeriodLabel, row.Revenue, row.PriorYearRevenue, row.YoYPercent, row.Delta, row.CumulativeRevenue)
	}
	if err := table.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write text report: %w", err)
	}

	if len(in.Warnings) > 0 {
		buf.WriteString("\nWarnings:\n")
		for _, w := range in.Warnings {
			fmt.Fprintf(&buf, "  - %s\n", w.Error())
		}
	}

	if in.Insight != "" {
		fmt.Fprintf(&buf, "\nExecutive summary:\n%s\n", strings.TrimSpace(in.Insight))
	}

	return buf.Bytes(), nil
}

func cardValue(rec *models.CanonicalRecord) string {
	if rec == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", periodName(rec), currencyutils.FormatWon(rec.Revenue.Decimal))
}
