// =============================================================================
// Daily Sales Report - Aggregator
// =============================================================================
//
// This module computes the fixed set of reports from the cleaned table.
//
// REPORTS (in sheet order):
//   Summary            - Metric / Value rows for revenue, quantity,
//                        transaction count and average transaction value
//   Sales by Category  - TotalPrice summed per Category, descending
//   Sales by Region    - TotalPrice summed per Region, descending
//   Top 5 Products     - TotalPrice summed per ProductName, first five
//
// Each grouped report needs its key column and TotalPrice. When one is absent
// the report is left out with a warning and the others are still produced.
// Groups with equal revenue keep the order in which their key first appeared.
//
// =============================================================================

package aggregator

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/daily-sales-report/internal/types"
)

// Column and metric labels used in the reports.
const (
	ColumnMetric       = "Metric"
	ColumnValue        = "Value"
	ColumnTotalRevenue = "Total Revenue"

	MetricTotalRevenue     = "Total Revenue"
	MetricTotalQuantity    = "Total Quantity Sold"
	MetricTransactionCount = "Number of Transactions"
	MetricAverageValue     = "Average Transaction Value"

	// TopProductLimit is the number of rows kept in the Top 5 Products report.
	TopProductLimit = 5
)

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregate builds the report set for table. An empty table produces an empty
// set and a warning.
func Aggregate(table *types.Table, logger logrus.FieldLogger) *types.ReportSet {
	logger.Info("Starting report generation")

	reports := types.NewReportSet()
	if table.Empty() {
		logger.Warn("No data available to generate reports")
		return reports
	}

	add := func(r *types.Report) {
		if r == nil {
			return
		}
		// Names are fixed constants, so Add cannot collide.
		_ = reports.Add(r)
		logger.WithFields(logrus.Fields{
			"report": r.Name(),
			"rows":   r.Len(),
		}).Info("Generated report")
	}

	add(summary(table, logger))
	add(revenueBy(table, types.ColCategory, types.ReportByCategory, 0, logger))
	add(revenueBy(table, types.ColRegion, types.ReportByRegion, 0, logger))
	add(revenueBy(table, types.ColProductName, types.ReportTopProduct, TopProductLimit, logger))

	logger.WithField("reports", reports.Len()).Info("Report generation complete")
	return reports
}

// =============================================================================
// SUMMARY
// =============================================================================

// summary totals the table. Missing source columns contribute nothing and are
// reported as warnings.
func summary(table *types.Table, logger logrus.FieldLogger) *types.Report {
	for _, col := range []string{types.ColTotalPrice, types.ColQuantity, types.ColTransactionID} {
		if !table.Schema.Has(col) {
			logger.WithField("column", col).Warn("Summary column not found, its metrics will be 0")
		}
	}

	var revenue, quantity float64
	ids := make(map[string]struct{})

	for _, tx := range table.Rows {
		revenue += tx.TotalPrice
		quantity += tx.Quantity
		if tx.TransactionID != "" {
			ids[tx.TransactionID] = struct{}{}
		}
	}

	count := len(ids)
	average := 0.0
	if count > 0 {
		average = revenue / float64(count)
	}

	return types.NewReport(types.ReportSummary,
		[]string{ColumnMetric, ColumnValue},
		[][]interface{}{
			{MetricTotalRevenue, revenue},
			{MetricTotalQuantity, quantity},
			{MetricTransactionCount, count},
			{MetricAverageValue, average},
		})
}

// =============================================================================
// GROUPED REVENUE
// =============================================================================

type group struct {
	key     string
	revenue float64
}

// revenueBy sums TotalPrice per value of keyColumn and sorts descending. A
// positive limit truncates the result. It returns nil when either column is
// missing from the table.
func revenueBy(table *types.Table, keyColumn, name string, limit int, logger logrus.FieldLogger) *types.Report {
	for _, col := range []string{keyColumn, types.ColTotalPrice} {
		if !table.Schema.Has(col) {
			logger.WithFields(logrus.Fields{
				"report": name,
				"column": col,
			}).Warn("Column not found, skipping report")
			return nil
		}
	}

	index := make(map[string]int)
	var groups []group

	for _, tx := range table.Rows {
		key := keyOf(tx, keyColumn)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].revenue += tx.TotalPrice
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].revenue > groups[j].revenue
	})

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	rows := make([][]interface{}, len(groups))
	for i, g := range groups {
		rows[i] = []interface{}{g.key, g.revenue}
	}

	return types.NewReport(name, []string{keyColumn, ColumnTotalRevenue}, rows)
}

func keyOf(tx types.Transaction, column string) string {
	switch column {
	case types.ColCategory:
		return tx.Category
	case types.ColRegion:
		return tx.Region
	case types.ColProductName:
		return tx.ProductName
	}
	return ""
}
