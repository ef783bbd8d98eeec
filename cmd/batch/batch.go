// Package batch handles batch processing of files
package batch

import (
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/revenue-dash/cmd/root"
	"fjacquet/revenue-dash/internal/batch"
	"fjacquet/revenue-dash/internal/common"
	"fjacquet/revenue-dash/internal/container"
	"fjacquet/revenue-dash/internal/validation"

	"github.com/spf13/cobra"
)

var merge bool

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process files from a directory",
	Long: `Batch process revenue tables from an input directory and write the prepared
CSV files to another directory.

Every .csv and .xlsx file directly inside the input directory is prepared on its own
and written as <name>-prepared.csv. Files without the required columns are reported
and skipped. With --merge the prepared files are also combined into one series,
re-sorted by month, and written as merged-prepared.csv.

Example:
  revenue-dash batch -i input_dir/ -o output_dir/ --merge`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(root.GetContainer(), root.SharedFlags.Input, root.SharedFlags.Output, merge, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVar(&merge, "merge", false, "Also write all prepared files as one merged series")
}

// Run processes inputDir into outputDir and prints a one-line summary per file.
// It fails when no file could be prepared.
func Run(c *container.Container, inputDir, outputDir string, mergeFiles bool, stdout io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}
	if err := validation.IsValidDirectory(inputDir); err != nil {
		return err
	}

	aggregator := c.GetBatchAggregator()
	result, err := aggregator.ProcessDirectory(inputDir, outputDir)
	if err != nil {
		return fmt.Errorf("error during batch processing: %w", err)
	}

	for _, fr := range result.Processed {
		_, _ = fmt.Fprintf(stdout, "ok      %s -> %s (%d months, %s, %d warnings)\n",
			filepath.Base(fr.Input), filepath.Base(fr.Output), len(fr.Records), rangeText(fr.Range), len(fr.Warnings))
	}
	for _, f := range result.Failed {
		_, _ = fmt.Fprintf(stdout, "failed  %s: %v\n", filepath.Base(f.Input), f.Err)
	}

	if len(result.Processed) == 0 {
		if len(result.Failed) == 0 {
			return fmt.Errorf("no .csv or .xlsx files found in %s", inputDir)
		}
		return fmt.Errorf("none of the %d files could be prepared", len(result.Failed))
	}

	if mergeFiles {
		merged := aggregator.AggregateRecords(result.Processed)
		output := filepath.Join(outputDir, batch.MergedFileName)
		if err := common.WriteRecordsCSVFile(merged, output, c.GetCSVOptions()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "merged  %d files -> %s (%d months, %s)\n",
			len(result.Processed), filepath.Base(output), len(merged), rangeText(batch.RangeOf(merged)))
	}

	return nil
}

func rangeText(r batch.PeriodRange) string {
	if s := r.String(); s != "" {
		return s
	}
	return "no valid months"
}
