package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/daily-sales-report/internal/config"
	"github.com/ginjaninja78/daily-sales-report/internal/publisher"
)

// isolate points every file setting at a temp dir and clears the settings
// environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, env := range []string{
		"SALES_DATA_FILE", "OUTPUT_REPORT_DIR", "LOG_LEVEL", "METRICS_FILE",
		"REPORT_RETENTION", "REPORT_S3_BUCKET", "REPORT_PUBLISH_TIMEOUT",
		"REPORT_S3_ACCESS_KEY_ID", "REPORT_S3_SECRET_ACCESS_KEY", "REPORT_S3_SESSION_TOKEN",
	} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	t.Setenv("LOG_FILE", filepath.Join(dir, "logs", "automation.log"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestProcessCommand(t *testing.T) {
	dir := isolate(t)
	source := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(source, []byte("TransactionID,Date,Category,TotalPrice\n1,2024-01-01,A,100\n"), 0o644))
	reports := filepath.Join(dir, "reports")
	metricsFile := filepath.Join(dir, "metrics", "salesreport.prom")
	t.Setenv("METRICS_FILE", metricsFile)

	out, err := execute(t, "process",
		"--config", filepath.Join(dir, "none.yaml"),
		"--env-file", filepath.Join(dir, "none.env"),
		"--source", source,
		"--output-dir", reports,
		"--date", "2024-01-15",
	)

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(reports, "Daily_Sales_Report_2024-01-15.xlsx"))
	assert.FileExists(t, metricsFile)
	assert.Contains(t, out, "Daily sales report automation completed")

	logData, err := os.ReadFile(filepath.Join(dir, "logs", "automation.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Logging setup complete")
}

func TestProcessCommandFailures(t *testing.T) {
	tests := []struct {
		name    string
		args    func(dir string) []string
		message string
	}{
		{
			name: "missing source file",
			args: func(dir string) []string {
				return []string{"--source", filepath.Join(dir, "missing.csv"), "--output-dir", filepath.Join(dir, "out")}
			},
			message: "sales data file not found",
		},
		{
			name: "missing settings",
			args: func(dir string) []string {
				return []string{"--source", "", "--output-dir", ""}
			},
			message: "OUTPUT_REPORT_DIR",
		},
		{
			name: "bad date",
			args: func(dir string) []string {
				return []string{"--source", "x.csv", "--output-dir", dir, "--date", "15/01/2024"}
			},
			message: "Invalid --date value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			args := append([]string{"process",
				"--config", filepath.Join(dir, "none.yaml"),
				"--env-file", filepath.Join(dir, "none.env"),
				"--date", "",
			}, tt.args(dir)...)

			out, err := execute(t, args...)

			require.Error(t, err)
			assert.True(t, errors.Is(err, errRunFailed))
			assert.Contains(t, out, tt.message)
		})
	}
}

func TestPublisherConfig(t *testing.T) {
	got := publisherConfig(config.S3{
		Bucket:          "reports",
		Region:          "eu-west-1",
		Endpoint:        "http://minio:9000",
		Prefix:          "daily/",
		PathStyle:       true,
		PublishTimeout:  30 * time.Second,
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		SessionToken:    "token",
	})

	assert.Equal(t, publisher.Config{
		Bucket:          "reports",
		Region:          "eu-west-1",
		Endpoint:        "http://minio:9000",
		Prefix:          "daily/",
		PathStyle:       true,
		Timeout:         30 * time.Second,
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		SessionToken:    "token",
	}, got)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Daily Sales Report\n"))
	assert.Contains(t, out, "Version:    "+Version)
}
