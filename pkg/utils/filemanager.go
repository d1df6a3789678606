// =============================================================================
// Daily Sales Report - File Manager Utility
// =============================================================================
//
// This module provides the file handling shared by the exporter and the
// workflow:
//   - Report file naming
//   - Directory management
//   - Temporary file naming for atomic replacement
//   - Retention of old reports
//
// REPLACEMENT STRATEGY:
//   - A report is first written to a hidden temporary file in the output
//     directory, so the final rename never crosses a filesystem
//   - The temporary file is renamed over the final path only once it has
//     been verified
//   - A failed write leaves any existing report untouched
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// REPORT NAMING
// =============================================================================

const (
	// ReportFilePrefix starts every report file name.
	ReportFilePrefix = "Daily_Sales_Report_"

	// ReportFileExtension ends every report file name.
	ReportFileExtension = ".xlsx"

	// ReportDateLayout formats the run date in report file names.
	ReportDateLayout = "2006-01-02"

	tempFilePrefix = ".tmp-"
)

// ReportFilePattern matches report files produced by ReportFileName.
var ReportFilePattern = ReportFilePrefix + "*" + ReportFileExtension

// ReportFileName returns the report file name for a run date.
//
// EXAMPLE:
//   date:   2024-01-15 06:00:00
//   output: "Daily_Sales_Report_2024-01-15.xlsx"
func ReportFileName(date time.Time) string {
	return ReportFilePrefix + date.Format(ReportDateLayout) + ReportFileExtension
}

// TempFilePath returns a unique hidden path next to finalPath. The original
// extension is kept because the spreadsheet writer checks it.
func TempFilePath(finalPath string) string {
	dir, name := filepath.Split(finalPath)
	return filepath.Join(dir, tempFilePrefix+uuid.New().String()+"-"+name)
}

// IsTempFile reports whether name was produced by TempFilePath.
func IsTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), tempFilePrefix)
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all of dirs if they don't exist. Empty entries
// are ignored.
//
// RETURNS:
//   - An error if any directory cannot be created.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// ReplaceFile moves src over dst. Both must be in the same directory.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CleanOldReports removes report files in dir last modified before
// now - maxAge. Temporary files left behind by an interrupted export are
// removed by the same rule. Subdirectories and other files are left alone.
//
// PARAMETERS:
//   - dir:    The output directory to clean.
//   - maxAge: The maximum age of reports to keep. Zero or less keeps all.
//   - now:    The reference time.
//
// RETURNS:
//   - The paths removed, sorted by file name.
//   - An error for the first file that could not be inspected or removed.
//     Files removed before the error are still reported.
func CleanOldReports(dir string, maxAge time.Duration, now time.Time) ([]string, error) {
	if maxAge <= 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	cutoff := now.Add(-maxAge)
	var removed []string

	for _, entry := range entries {
		if entry.IsDir() || !isReportFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return removed, fmt.Errorf("failed to inspect %s: %w", path, err)
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}

	return removed, nil
}

// isReportFile reports whether name is a report or a temporary report.
func isReportFile(name string) bool {
	if IsTempFile(name) {
		return strings.HasSuffix(name, ReportFileExtension)
	}
	matched, _ := filepath.Match(ReportFilePattern, name)
	return matched
}
