package types

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaHas(t *testing.T) {
	s := NewSchema([]string{ColDate, ColCategory, "Notes"})

	assert.True(t, s.Has(ColDate))
	assert.True(t, s.Has("Notes"))
	assert.False(t, s.Has(ColRegion))
	assert.Equal(t, []string{ColDate, ColCategory, "Notes"}, s.Columns())
	assert.Equal(t, 3, s.Len())
}

func TestReportSetKeepsInsertionOrder(t *testing.T) {
	set := NewReportSet()
	require.NoError(t, set.Add(NewReport(ReportSummary, []string{"Metric", "Value"}, nil)))
	require.NoError(t, set.Add(NewReport(ReportByRegion, []string{"Region", "Total Revenue"}, nil)))
	require.NoError(t, set.Add(NewReport(ReportByCategory, []string{"Category", "Total Revenue"}, nil)))

	assert.Equal(t, []string{ReportSummary, ReportByRegion, ReportByCategory}, set.Names())

	err := set.Add(NewReport(ReportSummary, nil, nil))
	assert.Error(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestReportIsImmutable(t *testing.T) {
	rows := [][]interface{}{{"A", 100.0}}
	r := NewReport(ReportByCategory, []string{"Category", "Total Revenue"}, rows)

	rows[0][1] = 1.0
	got := r.Rows()
	got[0][0] = "changed"

	assert.Equal(t, [][]interface{}{{"A", 100.0}}, r.Rows())
}

func TestKindError(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := errors.Wrap(NewParseError("sales.csv", cause), "load")

	assert.True(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, ErrParse, KindOf(err))
	assert.Nil(t, KindOf(io.EOF))

	var kindErr *KindError
	require.True(t, errors.As(err, &kindErr))
	assert.Equal(t, "sales.csv", kindErr.Path)
}
