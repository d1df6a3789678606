package aggregator

import (
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/daily-sales-report/internal/cleaner"
	"github.com/ginjaninja78/daily-sales-report/internal/csvparser"
	"github.com/ginjaninja78/daily-sales-report/internal/types"
)

func cleaned(t *testing.T, content string) *types.Table {
	t.Helper()
	raw, err := csvparser.Parse(strings.NewReader(content))
	require.NoError(t, err)
	logger, _ := logtest.NewNullLogger()
	table, _ := cleaner.Clean(raw, logger)
	return table
}

func summaryValue(t *testing.T, reports *types.ReportSet, metric string) interface{} {
	t.Helper()
	r, ok := reports.Get(types.ReportSummary)
	require.True(t, ok)
	for _, row := range r.Rows() {
		if row[0] == metric {
			return row[1]
		}
	}
	t.Fatalf("metric %q not in summary", metric)
	return nil
}

func TestAggregateScenario(t *testing.T) {
	table := cleaned(t, "TransactionID,Date,Category,TotalPrice\n"+
		"1,2024-01-01,A,100\n"+
		"2,bad-date,A,50\n"+
		"3,2024-01-02,B,30\n")
	logger, _ := logtest.NewNullLogger()

	reports := Aggregate(table, logger)

	assert.Equal(t, 130.0, summaryValue(t, reports, MetricTotalRevenue))
	assert.Equal(t, 2, summaryValue(t, reports, MetricTransactionCount))
	assert.Equal(t, 65.0, summaryValue(t, reports, MetricAverageValue))

	byCategory, ok := reports.Get(types.ReportByCategory)
	require.True(t, ok)
	assert.Equal(t, []string{"Category", "Total Revenue"}, byCategory.Columns())
	assert.Equal(t, [][]interface{}{{"A", 100.0}, {"B", 30.0}}, byCategory.Rows())

	_, ok = reports.Get(types.ReportByRegion)
	assert.False(t, ok)
	_, ok = reports.Get(types.ReportTopProduct)
	assert.False(t, ok)
	assert.Equal(t, []string{types.ReportSummary, types.ReportByCategory}, reports.Names())
}

func TestAggregateAllReports(t *testing.T) {
	table := cleaned(t, "TransactionID,Date,Quantity,TotalPrice,ProductName,Category,Region\n"+
		"1,2024-01-01,2,10,P1,A,North\n"+
		"1,2024-01-01,1,5,P2,B,South\n"+
		"2,2024-01-01,4,40,P3,A,North\n"+
		"3,2024-01-01,1,20,P4,,East\n"+
		"4,2024-01-01,1,20,P5,C,East\n"+
		"5,2024-01-01,3,1,P6,C,West\n"+
		"6,2024-01-01,1,2,P7,C,West\n")
	logger, _ := logtest.NewNullLogger()

	reports := Aggregate(table, logger)

	assert.Equal(t,
		[]string{types.ReportSummary, types.ReportByCategory, types.ReportByRegion, types.ReportTopProduct},
		reports.Names())

	assert.Equal(t, 98.0, summaryValue(t, reports, MetricTotalRevenue))
	assert.Equal(t, 13.0, summaryValue(t, reports, MetricTotalQuantity))
	assert.Equal(t, 6, summaryValue(t, reports, MetricTransactionCount))

	byCategory, _ := reports.Get(types.ReportByCategory)
	assert.Equal(t, [][]interface{}{
		{"A", 50.0},
		{"C", 23.0},
		{types.UnknownLabel, 20.0},
		{"B", 5.0},
	}, byCategory.Rows())

	var categoryTotal float64
	for _, row := range byCategory.Rows() {
		categoryTotal += row[1].(float64)
	}
	assert.Equal(t, summaryValue(t, reports, MetricTotalRevenue), categoryTotal)

	byRegion, _ := reports.Get(types.ReportByRegion)
	assert.Equal(t, []string{"Region", "Total Revenue"}, byRegion.Columns())
	assert.Equal(t, [][]interface{}{
		{"North", 50.0},
		{"East", 40.0},
		{"South", 5.0},
		{"West", 3.0},
	}, byRegion.Rows())

	top, _ := reports.Get(types.ReportTopProduct)
	assert.Equal(t, []string{"ProductName", "Total Revenue"}, top.Columns())
	assert.Equal(t, [][]interface{}{
		{"P3", 40.0},
		{"P4", 20.0},
		{"P5", 20.0},
		{"P1", 10.0},
		{"P2", 5.0},
	}, top.Rows())
}

func TestAggregateTopProductsFewerThanLimit(t *testing.T) {
	table := cleaned(t, "TransactionID,ProductName,TotalPrice\n1,X,5\n2,Y,7\n3,X,1\n")
	logger, _ := logtest.NewNullLogger()

	top, ok := Aggregate(table, logger).Get(types.ReportTopProduct)

	require.True(t, ok)
	assert.Equal(t, [][]interface{}{{"Y", 7.0}, {"X", 6.0}}, top.Rows())
}

func TestAggregateWithoutProductName(t *testing.T) {
	table := cleaned(t, "TransactionID,Date,Category,Region,TotalPrice\n1,2024-01-01,A,North,10\n")
	logger, hook := logtest.NewNullLogger()

	reports := Aggregate(table, logger)

	_, ok := reports.Get(types.ReportTopProduct)
	assert.False(t, ok)
	assert.Equal(t, []string{types.ReportSummary, types.ReportByCategory, types.ReportByRegion}, reports.Names())

	var skipped bool
	for _, e := range hook.AllEntries() {
		if e.Message == "Column not found, skipping report" && e.Data["column"] == "ProductName" {
			skipped = true
		}
	}
	assert.True(t, skipped)
}

func TestAggregateWithoutTotalPrice(t *testing.T) {
	table := cleaned(t, "TransactionID,Quantity,Category,ProductName\n1,2,A,P\n2,3,B,Q\n")
	logger, _ := logtest.NewNullLogger()

	reports := Aggregate(table, logger)

	assert.Equal(t, []string{types.ReportSummary}, reports.Names())
	assert.Equal(t, 0.0, summaryValue(t, reports, MetricTotalRevenue))
	assert.Equal(t, 5.0, summaryValue(t, reports, MetricTotalQuantity))
	assert.Equal(t, 0.0, summaryValue(t, reports, MetricAverageValue))
}

func TestAggregateAverageIsZeroWithoutTransactionIDs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "column absent", content: "Category,TotalPrice\nA,10\nB,20\n"},
		{name: "all ids missing", content: "TransactionID,TotalPrice\n,10\nNA,20\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := logtest.NewNullLogger()

			reports := Aggregate(cleaned(t, tt.content), logger)

			assert.Equal(t, 30.0, summaryValue(t, reports, MetricTotalRevenue))
			assert.Equal(t, 0, summaryValue(t, reports, MetricTransactionCount))
			assert.Equal(t, 0.0, summaryValue(t, reports, MetricAverageValue))
		})
	}
}

func TestAggregateEmptyTable(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	reports := Aggregate(cleaned(t, "TransactionID,Date,TotalPrice\n"), logger)

	assert.Zero(t, reports.Len())
	assert.Equal(t, "No data available to generate reports", hook.LastEntry().Message)

	assert.Zero(t, Aggregate(nil, logger).Len())
}
