// =============================================================================
// Daily Sales Report - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the report pipeline
// once.
//
// COMMAND USAGE:
//   salesreport process [flags]
//
// FLAGS:
//   --source      : Sales data CSV file (overrides SALES_DATA_FILE)
//   --output-dir  : Report directory (overrides OUTPUT_REPORT_DIR)
//   --date        : Run date used in the report file name (YYYY-MM-DD)
//
// PROCESSING:
//   1. Load configuration
//   2. Set up logging
//   3. Check that the source and output directory are configured
//   4. Set up the optional publisher and metrics
//   5. Run the workflow
//   6. Exit 1 if the run failed
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/daily-sales-report/internal/config"
	"github.com/ginjaninja78/daily-sales-report/internal/logging"
	"github.com/ginjaninja78/daily-sales-report/internal/metrics"
	"github.com/ginjaninja78/daily-sales-report/internal/publisher"
	"github.com/ginjaninja78/daily-sales-report/internal/workflow"
	"github.com/ginjaninja78/daily-sales-report/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	sourceFile string
	outputDir  string
	runDate    string
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Generate the daily sales report",
	Long: `The process command loads the sales data file, cleans it, computes the
reports and writes Daily_Sales_Report_<date>.xlsx to the output directory.
Running it twice on the same day overwrites the earlier report.

An empty data file produces a workbook with a single "No Data" sheet. A missing
or unreadable data file produces no workbook and exits with status 1.

When REPORT_S3_BUCKET is set the report is also uploaded, and when
METRICS_FILE is set run metrics are written there for node_exporter.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&sourceFile, "source", "", "Sales data CSV file")
	processCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to write the report to")
	processCmd.Flags().StringVar(&runDate, "date", "", "Run date for the report file name (YYYY-MM-DD, default today)")
}

// =============================================================================
// PROCESS IMPLEMENTATION
// =============================================================================

// runProcess executes the process command.
func runProcess(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("source") {
		overrides[config.KeySalesDataFile] = sourceFile
	}
	if cmd.Flags().Changed("output-dir") {
		overrides[config.KeyOutputReportDir] = outputDir
	}

	cfg, err := config.Load(config.Options{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
		Overrides:  overrides,
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = logrus.DebugLevel.String()
	}
	logger, err := logging.New(logging.Options{
		Level:    level,
		FilePath: cfg.Logging.File,
		Console:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()

	logger.Info("Logging setup complete")

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("Missing required configuration. Please ensure SALES_DATA_FILE and OUTPUT_REPORT_DIR are set")
		return errRunFailed
	}
	logger.WithFields(logrus.Fields{
		"source":     cfg.Report.SalesDataFile,
		"output_dir": cfg.Report.OutputReportDir,
	}).Info("Configuration loaded")

	clock, err := clockFor(runDate)
	if err != nil {
		logger.WithError(err).Error("Invalid --date value")
		return errRunFailed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := workflow.Options{
		Logger:    logger,
		Clock:     clock,
		Retention: cfg.Report.Retention,
	}

	if cfg.S3.Enabled() {
		pub, err := publisher.New(ctx, publisherConfig(cfg.S3))
		if err != nil {
			logger.WithError(err).Error("Failed to set up report publishing")
			return errRunFailed
		}
		opts.Publisher = pub
	}

	if cfg.Metrics.File != "" {
		if err := utils.EnsureDirectories(filepath.Dir(cfg.Metrics.File)); err != nil {
			logger.WithError(err).Warn("Failed to create metrics directory")
		}
		opts.Metrics = metrics.New(cfg.Metrics.File)
	}

	result := workflow.New(opts).Run(ctx, cfg.Report.SalesDataFile, cfg.Report.OutputReportDir)
	if result.Failed() {
		return errRunFailed
	}
	return nil
}

// publisherConfig maps the S3 settings onto the publisher's configuration.
func publisherConfig(s3 config.S3) publisher.Config {
	return publisher.Config{
		Bucket:          s3.Bucket,
		Region:          s3.Region,
		Endpoint:        s3.Endpoint,
		Prefix:          s3.Prefix,
		PathStyle:       s3.PathStyle,
		Timeout:         s3.PublishTimeout,
		AccessKeyID:     s3.AccessKeyID,
		SecretAccessKey: s3.SecretAccessKey,
		SessionToken:    s3.SessionToken,
	}
}

// clockFor returns time.Now when date is empty. Otherwise the clock starts at
// midnight of date and advances in real time.
func clockFor(date string) (func() time.Time, error) {
	if date == "" {
		return time.Now, nil
	}

	day, err := time.ParseInLocation(utils.ReportDateLayout, date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD: %w", err)
	}
	start := time.Now()
	return func() time.Time { return day.Add(time.Since(start)) }, nil
}
