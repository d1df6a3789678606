// =============================================================================
// Daily Sales Report - Workflow Module
// =============================================================================
//
// This module runs the report pipeline once and is the only place where
// failures are handled. Nothing below it recovers from an error, and nothing
// above it needs to: Run always returns a Result and never panics.
//
// PIPELINE:
//   1. Load the sales data file           (csvparser)
//   2. Clean the loaded rows              (cleaner)
//   3. Compute the reports                (aggregator)
//   4. Write Daily_Sales_Report_<date>    (xlsxwriter)
//   5. Upload the report, if configured   (publisher)
//   6. Remove expired reports, if configured
//   7. Record run metrics, if configured  (metrics)
//
// OUTCOMES:
//   Steps 1 and 4 can fail. A missing or unreadable source stops the run
//   before any file is written. Empty data is not a failure: a placeholder
//   workbook is written and the outcome is NoData. Retention and metrics
//   problems are logged as warnings and never change the outcome.
//
// =============================================================================

package workflow

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/daily-sales-report/internal/aggregator"
	"github.com/ginjaninja78/daily-sales-report/internal/cleaner"
	"github.com/ginjaninja78/daily-sales-report/internal/csvparser"
	"github.com/ginjaninja78/daily-sales-report/internal/metrics"
	"github.com/ginjaninja78/daily-sales-report/internal/publisher"
	"github.com/ginjaninja78/daily-sales-report/internal/types"
	"github.com/ginjaninja78/daily-sales-report/internal/xlsxwriter"
	"github.com/ginjaninja78/daily-sales-report/pkg/utils"
)

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome classifies how a run ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNoData
	OutcomeNotFound
	OutcomeParseError
	OutcomeExportError
	OutcomePublishError
	OutcomeUnexpected
)

var outcomeNames = map[Outcome]string{
	OutcomeSuccess:      "success",
	OutcomeNoData:       "no_data",
	OutcomeNotFound:     "not_found",
	OutcomeParseError:   "parse_error",
	OutcomeExportError:  "export_error",
	OutcomePublishError: "publish_error",
	OutcomeUnexpected:   "unexpected",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Failed reports whether the outcome should make the process exit non-zero.
func (o Outcome) Failed() bool {
	return o != OutcomeSuccess && o != OutcomeNoData
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of a single run.
type Result struct {
	// RunID correlates the log lines of this run.
	RunID string

	// Outcome classifies how the run ended.
	Outcome Outcome

	// ReportPath is the written workbook. It is empty if nothing was written.
	ReportPath string

	// PublishedURI is where the report was uploaded, if it was.
	PublishedURI string

	// Err is the failure behind a failed outcome.
	Err error

	// Stats contains processing statistics.
	Stats Stats
}

// Failed reports whether the run failed.
func (r Result) Failed() bool {
	return r.Outcome.Failed()
}

// Stats contains statistics about the run.
type Stats struct {
	RowsLoaded     int
	RowsCleaned    int
	RowsDropped    int
	ReportsWritten int
	Duration       time.Duration
}

// =============================================================================
// WORKFLOW STRUCTURE
// =============================================================================

// RunRecorder receives a snapshot of every finished run.
type RunRecorder interface {
	RecordRun(run metrics.Run) error
}

// Options configures a Workflow. Only Logger is commonly set; the rest are
// optional.
type Options struct {
	// Logger receives all pipeline log lines. Defaults to the logrus
	// standard logger.
	Logger logrus.FieldLogger

	// Clock returns the current time. The run date in the report file name
	// comes from it. Defaults to time.Now.
	Clock func() time.Time

	// Publisher uploads the written report. Nil disables publishing.
	Publisher publisher.Publisher

	// Metrics records every run. Nil disables metrics.
	Metrics RunRecorder

	// Retention removes reports older than this after a successful export.
	// Zero keeps every report.
	Retention time.Duration
}

// Workflow runs the report pipeline.
type Workflow struct {
	logger    logrus.FieldLogger
	clock     func() time.Time
	publisher publisher.Publisher
	metrics   RunRecorder
	retention time.Duration
}

// New creates a Workflow.
func New(opts Options) *Workflow {
	w := &Workflow{
		logger:    opts.Logger,
		clock:     opts.Clock,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		retention: opts.Retention,
	}
	if w.logger == nil {
		w.logger = logrus.StandardLogger()
	}
	if w.clock == nil {
		w.clock = time.Now
	}
	return w
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for source, writing into outputDir.
//
// PARAMETERS:
//   - ctx:       Bounds the publish step.
//   - source:    The sales data CSV file.
//   - outputDir: The report directory. It is created if missing.
//
// RETURNS:
//   - A Result describing the run. Run does not return errors or panic;
//     failures are reported through Result.Outcome and Result.Err.
func (w *Workflow) Run(ctx context.Context, source, outputDir string) (result Result) {
	start := w.clock()
	result.RunID = uuid.New().String()
	log := w.logger.WithField("run_id", result.RunID)

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = OutcomeUnexpected
			result.Err = fmt.Errorf("panic: %v", r)
			log.WithFields(logrus.Fields{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			}).Error("An unexpected error occurred during report generation")
		}
		result.Stats.Duration = w.clock().Sub(start)
		w.record(log, result)
		w.logDone(log, result)
	}()

	log.WithFields(logrus.Fields{
		"source":     source,
		"output_dir": outputDir,
	}).Info("Starting daily sales report automation")

	// =========================================================================
	// STEP 1: LOAD
	// =========================================================================

	raw, err := csvparser.Load(source, log)
	if err != nil {
		result.Outcome, result.Err = classify(err), err
		return result
	}
	result.Stats.RowsLoaded = len(raw.Rows)

	// =========================================================================
	// STEP 2-3: CLEAN AND AGGREGATE
	// =========================================================================
	// Neither step fails; anomalies are logged and absorbed.

	table, cleanStats := cleaner.Clean(raw, log)
	result.Stats.RowsCleaned = cleanStats.RowsOut
	result.Stats.RowsDropped = cleanStats.RowsDropped

	reports := aggregator.Aggregate(table, log)

	// =========================================================================
	// STEP 4: EXPORT
	// =========================================================================

	path, err := xlsxwriter.Export(reports, outputDir, utils.ReportFileName(start), log)
	if err != nil {
		result.Outcome, result.Err = classify(err), err
		return result
	}
	result.ReportPath = path
	result.Stats.ReportsWritten = reports.Len()

	result.Outcome = OutcomeSuccess
	if reports.Len() == 0 {
		result.Outcome = OutcomeNoData
	}

	// =========================================================================
	// STEP 5: PUBLISH
	// =========================================================================

	if w.publisher != nil {
		uri, err := w.publisher.Publish(ctx, path)
		if err != nil {
			log.WithError(err).Error("Failed to publish report")
			result.Outcome = OutcomePublishError
			result.Err = errors.Wrap(err, "publish report")
		} else {
			result.PublishedURI = uri
			log.WithField("uri", uri).Info("Published report")
		}
	}

	// =========================================================================
	// STEP 6: RETENTION
	// =========================================================================

	w.sweep(log, outputDir)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// classify maps an error kind to an outcome.
func classify(err error) Outcome {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, types.ErrParse):
		return OutcomeParseError
	case errors.Is(err, types.ErrExport):
		return OutcomeExportError
	default:
		return OutcomeUnexpected
	}
}

// sweep removes expired reports from outputDir.
func (w *Workflow) sweep(log logrus.FieldLogger, outputDir string) {
	if w.retention <= 0 {
		return
	}

	removed, err := utils.CleanOldReports(outputDir, w.retention, w.clock())
	for _, path := range removed {
		log.WithField("path", path).Info("Removed expired report")
	}
	if err != nil {
		log.WithError(err).Warn("Failed to remove expired reports")
	}
}

// record forwards the run to the metrics recorder, if any.
func (w *Workflow) record(log logrus.FieldLogger, result Result) {
	if w.metrics == nil {
		return
	}

	err := w.metrics.RecordRun(metrics.Run{
		Outcome:        result.Outcome.String(),
		Success:        !result.Failed(),
		RowsLoaded:     result.Stats.RowsLoaded,
		RowsCleaned:    result.Stats.RowsCleaned,
		RowsDropped:    result.Stats.RowsDropped,
		ReportsWritten: result.Stats.ReportsWritten,
		Finished:       w.clock(),
		Duration:       result.Stats.Duration,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to record run metrics")
	}
}

// logDone writes the final line of a run. Each failure kind gets its own
// message.
func (w *Workflow) logDone(log logrus.FieldLogger, result Result) {
	entry := log.WithFields(logrus.Fields{
		"outcome":  result.Outcome.String(),
		"duration": result.Stats.Duration.String(),
	})
	if result.Err != nil {
		entry = entry.WithError(result.Err)
	}

	switch result.Outcome {
	case OutcomeSuccess:
		entry.WithField("report", result.ReportPath).Info("Daily sales report automation completed")
	case OutcomeNoData:
		entry.WithField("report", result.ReportPath).Warn("Daily sales report completed without data")
	case OutcomeNotFound:
		entry.Error("Report generation stopped: sales data file not found")
	case OutcomeParseError:
		entry.Error("Report generation stopped: sales data could not be read")
	case OutcomeExportError:
		entry.Error("Report generation stopped: report could not be written")
	case OutcomePublishError:
		entry.WithField("report", result.ReportPath).Error("Report written but could not be published")
	default:
		entry.Error("Report generation stopped by an unexpected error")
	}
}
