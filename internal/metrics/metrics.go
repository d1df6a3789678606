// =============================================================================
// Daily Sales Report - Metrics Module
// =============================================================================
//
// This module exposes the outcome of each report run as Prometheus gauges.
//
// The job is a short-lived batch process, so nothing is served over HTTP.
// Instead the registry is written to a textfile that node_exporter's textfile
// collector picks up.
//
// =============================================================================

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "salesreport"

// Run is the snapshot of a finished run.
type Run struct {
	Outcome        string
	Success        bool
	RowsLoaded     int
	RowsCleaned    int
	RowsDropped    int
	ReportsWritten int
	Finished       time.Time
	Duration       time.Duration
}

// Recorder holds the run gauges on a private registry.
type Recorder struct {
	path     string
	registry *prometheus.Registry

	rowsLoaded     prometheus.Gauge
	rowsCleaned    prometheus.Gauge
	rowsDropped    prometheus.Gauge
	reportsWritten prometheus.Gauge
	lastSuccess    prometheus.Gauge
	lastTimestamp  prometheus.Gauge
	lastDuration   prometheus.Gauge
	outcome        *prometheus.GaugeVec
}

// New returns a Recorder that writes to the textfile at path. An empty path
// keeps the metrics in memory only.
func New(path string) *Recorder {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	r := &Recorder{
		path:           path,
		registry:       prometheus.NewRegistry(),
		rowsLoaded:     gauge("rows_loaded", "Rows read from the sales data file by the last run."),
		rowsCleaned:    gauge("rows_cleaned", "Rows left after cleaning in the last run."),
		rowsDropped:    gauge("rows_dropped", "Rows dropped for an invalid date in the last run."),
		reportsWritten: gauge("reports_written", "Report sheets written by the last run."),
		lastSuccess:    gauge("last_run_success", "1 if the last run did not fail, 0 otherwise."),
		lastTimestamp:  gauge("last_run_timestamp_seconds", "Unix time the last run finished."),
		lastDuration:   gauge("last_run_duration_seconds", "Wall time of the last run."),
		outcome: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_outcome",
			Help:      "1 for the outcome of the last run.",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.rowsLoaded,
		r.rowsCleaned,
		r.rowsDropped,
		r.reportsWritten,
		r.lastSuccess,
		r.lastTimestamp,
		r.lastDuration,
		r.outcome,
	)
	return r
}

// Registry returns the registry the gauges are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordRun updates the gauges from run and, when a path is configured,
// rewrites the textfile.
func (r *Recorder) RecordRun(run Run) error {
	r.rowsLoaded.Set(float64(run.RowsLoaded))
	r.rowsCleaned.Set(float64(run.RowsCleaned))
	r.rowsDropped.Set(float64(run.RowsDropped))
	r.reportsWritten.Set(float64(run.ReportsWritten))
	r.lastTimestamp.Set(float64(run.Finished.Unix()))
	r.lastDuration.Set(run.Duration.Seconds())

	if run.Success {
		r.lastSuccess.Set(1)
	} else {
		r.lastSuccess.Set(0)
	}

	r.outcome.Reset()
	r.outcome.WithLabelValues(run.Outcome).Set(1)

	if r.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
