package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	r := New("")

	require.NoError(t, r.RecordRun(Run{
		Outcome:        "success",
		Success:        true,
		RowsLoaded:     3,
		RowsCleaned:    2,
		RowsDropped:    1,
		ReportsWritten: 4,
		Finished:       time.Unix(1700000000, 0),
		Duration:       1500 * time.Millisecond,
	}))

	assert.Equal(t, 3.0, testutil.ToFloat64(r.rowsLoaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rowsCleaned))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rowsDropped))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.reportsWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lastSuccess))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.lastTimestamp))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.lastDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcome.WithLabelValues("success")))
}

func TestRecordRunResetsOutcome(t *testing.T) {
	r := New("")

	require.NoError(t, r.RecordRun(Run{Outcome: "success", Success: true}))
	require.NoError(t, r.RecordRun(Run{Outcome: "not_found"}))

	assert.Equal(t, 1, testutil.CollectAndCount(r.outcome))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcome.WithLabelValues("not_found")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.lastSuccess))
}

func TestRecordRunWritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salesreport.prom")
	r := New(path)

	require.NoError(t, r.RecordRun(Run{Outcome: "no_data", Success: true, Finished: time.Unix(10, 0)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `salesreport_run_outcome{outcome="no_data"} 1`)
	assert.Contains(t, text, "salesreport_last_run_success 1")
	assert.Contains(t, text, "salesreport_last_run_timestamp_seconds 10")

	expected := `
# HELP salesreport_rows_loaded Rows read from the sales data file by the last run.
# TYPE salesreport_rows_loaded gauge
salesreport_rows_loaded 0
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "salesreport_rows_loaded"))
}

func TestRecordRunWriteFailure(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "missing", "salesreport.prom"))

	err := r.RecordRun(Run{Outcome: "success", Success: true})

	assert.Error(t, err)
}
