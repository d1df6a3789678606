// =============================================================================
// Daily Sales Report - XLSX Workbook Reader
// =============================================================================
//
// This module reads a workbook back into plain string grids. The exporter uses
// it to verify a freshly written report before it replaces the previous one,
// and tests use it to inspect report contents.
//
// WORKBOOK STRUCTURE (as written by the exporter):
//
//   | Row 1      | header (report columns)            |
//   | Row 2..n   | one row per report row             |
//
// One sheet per report, in report order. Cell values are returned as the
// formatted strings excelize produces, so numbers read back as e.g. "130".
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// WORKBOOK STRUCTURE
// =============================================================================

// Workbook is the content of an XLSX file.
type Workbook struct {
	// Path is the file the workbook was read from.
	Path string

	// Sheets holds every sheet in workbook order.
	Sheets []Sheet
}

// Sheet is a single worksheet split into header and data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the named sheet.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// Read opens the workbook at path and reads every sheet.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//
// RETURNS:
//   - The workbook contents.
//   - An error if the file cannot be opened or a sheet cannot be read.
func Read(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{Path: path}
	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("error reading sheet '%s': %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return wb, nil
}

// readSheet reads a single sheet from an open workbook. Empty rows after the
// header are skipped.
func readSheet(f *excelize.File, name string) (Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return Sheet{}, fmt.Errorf("failed to read rows: %w", err)
	}

	sheet := Sheet{Name: name, Rows: [][]string{}}
	if len(rows) == 0 {
		return sheet, nil
	}

	sheet.Header = rows[0]
	for _, row := range rows[1:] {
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
