// =============================================================================
// Daily Sales Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesreport)
//   ├── processCmd (salesreport process)
//   └── versionCmd (salesreport version)
//
// GLOBAL FLAGS:
//   --config    : Optional YAML settings file
//   --env-file  : Optional .env file
//   --verbose   : Log at debug level
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the YAML configuration file.
var cfgFile string

// envFile holds the path to the .env file.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// errRunFailed is returned by commands that have already logged their
// failure. Execute exits non-zero without printing it again.
var errRunFailed = errors.New("run failed")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesreport",
	Short: "Daily Sales Report - Turn the daily sales export into an Excel report",
	Long: `Daily Sales Report reads the day's sales transaction CSV, cleans it, computes
a fixed set of summary reports and writes them as sheets of a single workbook
named Daily_Sales_Report_<date>.xlsx.

Reports:
  - Summary (revenue, quantity, transactions, average transaction value)
  - Sales by Category
  - Sales by Region
  - Top 5 Products

Example Usage:
  salesreport process                              # Use SALES_DATA_FILE and OUTPUT_REPORT_DIR
  salesreport process --source sales.csv --output-dir reports
  salesreport process --config ./salesreport.yaml`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main() and exits with status 1
// when the command fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the YAML configuration file (ignored if missing)",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"Path to the .env file (ignored if missing)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
