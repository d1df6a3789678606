// =============================================================================
// Daily Sales Report - Cleaner
// =============================================================================
//
// This module turns the loader's untyped table into typed transactions. It
// never fails: every anomaly is absorbed by coercion or by dropping the row,
// and every action is logged.
//
// COLUMN POLICIES:
//   Date                                  -> parsed; rows with unparseable dates
//                                            are dropped (the only row removal)
//   Quantity, UnitPrice, TotalPrice       -> parsed as numbers; failures become 0
//   ProductName, Category, Region,
//   SalespersonID                         -> missing values become "Unknown"
//   anything else                         -> carried through in Extra
//
// Absent columns are skipped with a warning. Columns are independent, so the
// order in which policies run does not matter.
//
// =============================================================================

package cleaner

import (
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/daily-sales-report/internal/types"
)

// =============================================================================
// CLEANING STATISTICS
// =============================================================================

// Stats records what the cleaner changed.
type Stats struct {
	// RowsIn is the number of rows received from the loader.
	RowsIn int

	// RowsOut is the number of rows in the cleaned table.
	RowsOut int

	// RowsDropped counts rows removed for an unparseable or missing Date.
	RowsDropped int

	// Coerced counts, per numeric column, values that could not be parsed and
	// were set to zero.
	Coerced map[string]int

	// Filled counts, per categorical column, missing values set to "Unknown".
	Filled map[string]int

	// SkippedColumns lists recognized columns absent from the source.
	SkippedColumns []string
}

func newStats(rowsIn int) Stats {
	return Stats{
		RowsIn:  rowsIn,
		Coerced: make(map[string]int),
		Filled:  make(map[string]int),
	}
}

// =============================================================================
// CLEANER
// =============================================================================

// Clean normalizes raw into a typed table. An empty input yields an empty
// table with the same schema and a single warning.
func Clean(raw *types.RawTable, logger logrus.FieldLogger) (*types.Table, Stats) {
	logger.Info("Starting data cleaning and processing")

	if raw.Empty() {
		logger.Warn("No data to process, returning empty table")
		schema := types.NewSchema(nil)
		if raw != nil {
			schema = raw.Schema
		}
		return &types.Table{Schema: schema, Rows: []types.Transaction{}}, newStats(0)
	}

	schema := raw.Schema
	stats := newStats(len(raw.Rows))

	hasDate := schema.Has(types.ColDate)
	numeric := presentColumns(schema, types.NumericColumns, &stats)
	categorical := presentColumns(schema, types.CategoricalColumns, &stats)
	if !hasDate {
		stats.SkippedColumns = append([]string{types.ColDate}, stats.SkippedColumns...)
	}

	extra := extraColumns(schema)
	rows := make([]types.Transaction, 0, len(raw.Rows))

	for _, row := range raw.Rows {
		var tx types.Transaction

		if hasDate {
			cell := row[types.ColDate]
			date, ok := ParseDate(cell)
			if !ok {
				stats.RowsDropped++
				continue
			}
			tx.Date = date
		}

		if cell, ok := row[types.ColTransactionID]; ok && !cell.Missing {
			tx.TransactionID = cell.Value
		}

		for _, col := range numeric {
			value, ok := ParseNumber(row[col])
			if !ok {
				stats.Coerced[col]++
			}
			setNumeric(&tx, col, value)
		}

		for _, col := range categorical {
			cell := row[col]
			value := cell.Value
			if cell.Missing {
				value = types.UnknownLabel
				stats.Filled[col]++
			}
			setCategorical(&tx, col, value)
		}

		if len(extra) > 0 {
			tx.Extra = make(map[string]types.Cell, len(extra))
			for _, col := range extra {
				tx.Extra[col] = row[col]
			}
		}

		rows = append(rows, tx)
	}

	stats.RowsOut = len(rows)
	logActions(logger, hasDate, numeric, categorical, stats)

	return &types.Table{Schema: schema, Rows: rows}, stats
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// presentColumns returns the columns of want found in schema and records the
// rest as skipped.
func presentColumns(schema types.Schema, want []string, stats *Stats) []string {
	var present []string
	for _, col := range want {
		if schema.Has(col) {
			present = append(present, col)
		} else {
			stats.SkippedColumns = append(stats.SkippedColumns, col)
		}
	}
	return present
}

// extraColumns returns the unrecognized columns in schema order.
func extraColumns(schema types.Schema) []string {
	recognized := map[string]bool{
		types.ColTransactionID: true,
		types.ColDate:          true,
	}
	for _, col := range types.NumericColumns {
		recognized[col] = true
	}
	for _, col := range types.CategoricalColumns {
		recognized[col] = true
	}

	var extra []string
	for _, col := range schema.Columns() {
		if !recognized[col] {
			extra = append(extra, col)
		}
	}
	return extra
}

func setNumeric(tx *types.Transaction, col string, value float64) {
	switch col {
	case types.ColQuantity:
		tx.Quantity = value
	case types.ColUnitPrice:
		tx.UnitPrice = value
	case types.ColTotalPrice:
		tx.TotalPrice = value
	}
}

func setCategorical(tx *types.Transaction, col, value string) {
	switch col {
	case types.ColProductName:
		tx.ProductName = value
	case types.ColCategory:
		tx.Category = value
	case types.ColRegion:
		tx.Region = value
	case types.ColSalespersonID:
		tx.SalespersonID = value
	}
}

// logActions emits one entry per column policy applied or skipped.
func logActions(logger logrus.FieldLogger, hasDate bool, numeric, categorical []string, stats Stats) {
	if hasDate {
		logger.WithFields(logrus.Fields{
			"column":       types.ColDate,
			"rows_dropped": stats.RowsDropped,
		}).Info("Converted 'Date' column to dates and dropped unparseable rows")
	} else {
		logger.WithField("column", types.ColDate).Warn("Date column not found, skipping date conversion")
	}

	for _, col := range types.NumericColumns {
		if !contains(numeric, col) {
			logger.WithField("column", col).Warn("Numeric column not found, skipping type conversion")
			continue
		}
		logger.WithFields(logrus.Fields{
			"column":  col,
			"coerced": stats.Coerced[col],
		}).Info("Ensured column is numeric, unparseable values set to 0")
	}

	for _, col := range types.CategoricalColumns {
		if !contains(categorical, col) {
			logger.WithField("column", col).Warn("Categorical column not found, skipping missing value handling")
			continue
		}
		logger.WithFields(logrus.Fields{
			"column": col,
			"filled": stats.Filled[col],
		}).Info("Filled missing values with 'Unknown'")
	}

	logger.WithFields(logrus.Fields{
		"rows_in":  stats.RowsIn,
		"rows_out": stats.RowsOut,
	}).Info("Data cleaning and processing complete")
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
