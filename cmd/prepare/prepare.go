// Package prepare implements the prepare command
package prepare

import (
	"fmt"
	"io"

	cmdcommon "fjacquet/revenue-dash/cmd/common"
	"fjacquet/revenue-dash/cmd/root"
	"fjacquet/revenue-dash/internal/common"
	"fjacquet/revenue-dash/internal/container"
	"fjacquet/revenue-dash/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the prepare command
var Cmd = &cobra.Command{
	Use:   "prepare",
	Short: "Write the prepared revenue table as canonical CSV",
	Long: `Prepare a monthly revenue table and write it as CSV with the columns
period_label, revenue, prior_year_revenue, yoy_percent, delta and cumulative_revenue.

Example:
  revenue-dash prepare -i sales.xlsx -o prepared.csv
  revenue-dash prepare --demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(root.GetContainer(), root.SharedFlags, cmd.OutOrStdout())
	},
}

// Run prepares the selected table and writes the canonical CSV to flags.Output, or
// to stdout when no output is set.
func Run(c *container.Container, flags root.CommonFlags, stdout io.Writer) error {
	source, result, err := cmdcommon.LoadAndPrepare(c, flags)
	if err != nil {
		return err
	}

	w, closeFn, err := cmdcommon.OpenOutput(flags.Output, stdout)
	if err != nil {
		return err
	}
	if err := common.WriteRecordsCSV(result.Records, w, c.GetCSVOptions()); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	c.GetLogger().Info("Prepared table written",
		logging.F(logging.FieldFile, source),
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F("warnings", len(result.Warnings)))
	return nil
}
