// Package summary implements the summary command
package summary

import (
	"context"
	"fmt"
	"io"

	cmdcommon "fjacquet/revenue-dash/cmd/common"
	"fjacquet/revenue-dash/cmd/root"
	"fjacquet/revenue-dash/internal/container"
	"fjacquet/revenue-dash/internal/kpi"
	"fjacquet/revenue-dash/internal/report"
	"fjacquet/revenue-dash/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the flags of the summary command.
type Options struct {
	Format  string
	Insight bool
}

var opts Options

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the KPI summary of a revenue table",
	Long: `Show total revenue, mean YoY growth, the highest and lowest months and a
preview of the prepared table.

With --insight an executive summary is requested from Gemini
(requires ai.enabled and GEMINI_API_KEY).

Example:
  revenue-dash summary --demo
  revenue-dash summary -i sales.csv --format json -o summary.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), root.SharedFlags, opts, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Report format: text, json or yaml (default from report.format)")
	Cmd.Flags().BoolVar(&opts.Insight, "insight", false, "Append an AI-written executive summary")
}

// Run prepares the selected table and writes its report.
func Run(ctx context.Context, c *container.Container, flags root.CommonFlags, o Options, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := o.Format
	if format == "" && c != nil {
		format = c.GetConfig().Report.Format
	}
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}

	source, result, err := cmdcommon.LoadAndPrepare(c, flags)
	if err != nil {
		return err
	}

	in := report.Input{
		Source:   source,
		Summary:  kpi.Summarize(result.Records),
		Records:  result.Records,
		Warnings: result.Warnings,
	}

	if o.Insight {
		client := c.GetInsightClient()
		if client == nil {
			return fmt.Errorf("executive summary requested but AI is not enabled (set ai.enabled and GEMINI_API_KEY)")
		}
		text, err := client.Summarize(ctx, in.Summary, in.Records)
		if err != nil {
			return fmt.Errorf("failed to generate executive summary: %w", err)
		}
		in.Insight = text
	}

	out, err := c.GetReportGenerator().GenerateReport(in, format)
	if err != nil {
		return err
	}
	return cmdcommon.WriteOutput(flags.Output, stdout, out, c.GetLogger())
}
