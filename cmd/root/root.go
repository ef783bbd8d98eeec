// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/revenue-dash/internal/config"
	"fjacquet/revenue-dash/internal/container"
	"fjacquet/revenue-dash/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	Demo       bool
	ConfigFile string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "revenue-dash",
		Short: "A CLI tool to prepare monthly revenue tables and summarize their KPIs.",
		Long: `revenue-dash loads a monthly revenue table (CSV, XLSX or the built-in demo data),
maps its columns onto period, revenue, prior_year_revenue and yoy_percent,
sorts it by month and adds the month-over-prior-year delta and cumulative revenue.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if appContainer != nil {
				return nil
			}
			cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
			if err != nil {
				return err
			}
			c, err := container.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			SetContainer(c)
			return nil
		},
	}

	// SharedFlags holds the values of the persistent flags
	SharedFlags = CommonFlags{}

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file (.csv or .xlsx), or directory for batch")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file, or directory for batch (default: stdout)")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.Demo, "demo", false, "Use the built-in 2024 demo table instead of an input file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.revenue-dash, .revenue-dash or .)")
}

// SetContainer installs the application container and its logger. Tests use it to
// inject a container built from a fixed configuration.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}

// GetContainer returns the container built by the root command, or nil before any
// command has run.
func GetContainer() *container.Container {
	return appContainer
}

// Close releases the container built by the root command. main calls it after
// Execute so that it also runs when a command fails.
func Close() {
	if appContainer == nil {
		return
	}
	if err := appContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to release resources")
	}
	appContainer = nil
}
