// =============================================================================
// Daily Sales Report - Shared Types
// =============================================================================
//
// This package contains the types passed between the pipeline stages. Keeping
// them here avoids import cycles between:
//   - csvparser   (produces RawTable)
//   - cleaner     (RawTable -> Table)
//   - aggregator  (Table -> ReportSet)
//   - xlsxwriter  (consumes ReportSet)
//
// =============================================================================

package types

import (
	"time"
)

// =============================================================================
// RECOGNIZED COLUMNS
// =============================================================================

// Column names recognized by the cleaner and the aggregator. Any other column
// in the source file is carried through untouched and ignored by every report.
const (
	ColTransactionID = "TransactionID"
	ColDate          = "Date"
	ColQuantity      = "Quantity"
	ColUnitPrice     = "UnitPrice"
	ColTotalPrice    = "TotalPrice"
	ColProductName   = "ProductName"
	ColCategory      = "Category"
	ColRegion        = "Region"
	ColSalespersonID = "SalespersonID"
)

// NumericColumns are coerced to numbers; unparseable values become zero.
var NumericColumns = []string{ColQuantity, ColUnitPrice, ColTotalPrice}

// CategoricalColumns have missing values replaced with UnknownLabel.
var CategoricalColumns = []string{ColProductName, ColCategory, ColRegion, ColSalespersonID}

// UnknownLabel replaces missing categorical values.
const UnknownLabel = "Unknown"

// =============================================================================
// SCHEMA
// =============================================================================

// Schema is the ordered set of column names discovered at load time.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema builds a schema from header names, preserving their order.
func NewSchema(columns []string) Schema {
	s := Schema{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)
	for i, c := range columns {
		s.index[c] = i
	}
	return s
}

// Has reports whether the column was present in the source file.
func (s Schema) Has(column string) bool {
	_, ok := s.index[column]
	return ok
}

// Columns returns a copy of the column names in source order.
func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.columns)
}

// =============================================================================
// RAW TABLE (LOADER OUTPUT)
// =============================================================================

// Cell is a single loaded value. Missing is set for empty cells and for the
// usual missing-value markers ("NA", "null", ...).
type Cell struct {
	Value   string
	Missing bool
}

// RawRow holds one source row keyed by column name.
type RawRow map[string]Cell

// RawTable is the loader's output: untyped cells under the discovered schema.
type RawTable struct {
	// Schema lists the columns found in the header row.
	Schema Schema

	// Rows holds the data rows in file order.
	Rows []RawRow

	// SourceFile is the path the table was loaded from.
	SourceFile string
}

// Empty reports whether the table has no data rows.
func (t *RawTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// =============================================================================
// CLEANED TABLE (CLEANER OUTPUT)
// =============================================================================

// Transaction is one cleaned row. Fields for columns absent from the schema
// keep their zero value; consult Table.Schema before reading them.
type Transaction struct {
	// TransactionID is empty when the source value was missing.
	TransactionID string

	// Date is only meaningful when the schema has a Date column, in which case
	// it always holds a valid calendar date.
	Date time.Time

	Quantity   float64
	UnitPrice  float64
	TotalPrice float64

	ProductName   string
	Category      string
	Region        string
	SalespersonID string

	// Extra carries unrecognized columns through unchanged.
	Extra map[string]Cell
}

// Table is the cleaned transaction table.
type Table struct {
	Schema Schema
	Rows   []Transaction
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}
