// =============================================================================
// Daily Sales Report - XLSX Writer Module
// =============================================================================
//
// This module writes the report set as a workbook with one sheet per report.
//
// WORKBOOK STRUCTURE:
//
//   Daily_Sales_Report_2024-01-15.xlsx
//     Summary            | Metric | Value |
//     Sales by Category  | Category | Total Revenue |
//     Sales by Region    | Region | Total Revenue |
//     Top 5 Products     | ProductName | Total Revenue |
//
//   Sheets appear in report set order. Numbers are stored as numeric cells.
//   An empty report set produces a single "No Data" sheet with one message
//   row instead.
//
// WRITE PROCESS:
//   1. Create the output directory
//   2. Build the workbook in memory
//   3. Save it to a temporary file next to the target
//   4. Read the temporary file back and check its sheets
//   5. Rename it over the target
//
// Any failure removes the temporary file and returns a types.ErrExport kind
// error. An existing report at the target path survives a failed export.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/daily-sales-report/internal/types"
	"github.com/ginjaninja78/daily-sales-report/internal/xlsxparser"
	"github.com/ginjaninja78/daily-sales-report/pkg/utils"
)

// Placeholder sheet written when there are no reports.
const (
	PlaceholderSheet   = "No Data"
	PlaceholderHeader  = "Message"
	PlaceholderMessage = "No data available for reports."
)

// defaultSheet is the sheet excelize creates in a new workbook.
const defaultSheet = "Sheet1"

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Export writes reports to outputDir/fileName.
//
// PARAMETERS:
//   - reports:   The report set. A nil or empty set writes the placeholder.
//   - outputDir: The directory to write to. It is created if missing.
//   - fileName:  The workbook file name.
//   - logger:    Receives one entry per attempt, success, and failure.
//
// RETURNS:
//   - The path of the written workbook.
//   - A types.ErrExport kind error if any step fails.
func Export(reports *types.ReportSet, outputDir, fileName string, logger logrus.FieldLogger) (string, error) {
	finalPath := filepath.Join(outputDir, fileName)
	log := logger.WithField("output", finalPath)
	log.Info("Attempting to export reports")

	if err := utils.EnsureDirectories(outputDir); err != nil {
		log.WithError(err).Error("Failed to create output directory")
		return "", types.NewExportError(finalPath, err)
	}

	sheets := sheetsFor(reports)
	if reports.Len() == 0 {
		log.Warn("No reports to export, writing placeholder sheet")
	}

	tempPath := utils.TempFilePath(finalPath)
	if err := writeWorkbook(tempPath, sheets); err != nil {
		os.Remove(tempPath)
		log.WithError(err).Error("Failed to write report workbook")
		return "", types.NewExportError(finalPath, err)
	}

	if err := verifyWorkbook(tempPath, sheets); err != nil {
		os.Remove(tempPath)
		log.WithError(err).Error("Report workbook failed verification")
		return "", types.NewExportError(finalPath, err)
	}

	if err := utils.ReplaceFile(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		log.WithError(err).Error("Failed to move report workbook into place")
		return "", types.NewExportError(finalPath, err)
	}

	log.WithField("sheets", len(sheets)).Info("Successfully exported reports")
	return finalPath, nil
}

// =============================================================================
// WORKBOOK GENERATION
// =============================================================================

// sheet is one worksheet ready to be written.
type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

// sheetsFor converts reports to sheets, substituting the placeholder for an
// empty set.
func sheetsFor(reports *types.ReportSet) []sheet {
	if reports.Len() == 0 {
		return []sheet{{
			name:   PlaceholderSheet,
			header: []string{PlaceholderHeader},
			rows:   [][]interface{}{{PlaceholderMessage}},
		}}
	}

	sheets := make([]sheet, 0, reports.Len())
	reports.Each(func(r *types.Report) error {
		sheets = append(sheets, sheet{name: r.Name(), header: r.Columns(), rows: r.Rows()})
		return nil
	})
	return sheets
}

// writeWorkbook saves sheets as a new workbook at path.
func writeWorkbook(path string, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.name); err != nil {
				return fmt.Errorf("failed to name sheet '%s': %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet '%s': %w", s.name, err)
		}

		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("failed to write sheet '%s': %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSheet writes the header on row 1 and data from row 2.
func writeSheet(f *excelize.File, s sheet) error {
	header := make([]interface{}, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// verifyWorkbook reads path back and checks that it holds sheets in order
// with the expected number of data rows.
func verifyWorkbook(path string, sheets []sheet) error {
	wb, err := xlsxparser.Read(path)
	if err != nil {
		return err
	}

	if len(wb.Sheets) != len(sheets) {
		return fmt.Errorf("expected %d sheets, found %d", len(sheets), len(wb.Sheets))
	}
	for i, s := range sheets {
		got := wb.Sheets[i]
		if got.Name != s.name {
			return fmt.Errorf("sheet %d: expected '%s', found '%s'", i+1, s.name, got.Name)
		}
		if len(got.Rows) != len(s.rows) {
			return fmt.Errorf("sheet '%s': expected %d rows, found %d", s.name, len(s.rows), len(got.Rows))
		}
	}
	return nil
}
