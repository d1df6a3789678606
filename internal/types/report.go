package types

import (
	"fmt"
)

// Report names, which double as sheet names in the exported workbook.
const (
	ReportSummary    = "Summary"
	ReportByCategory = "Sales by Category"
	ReportByRegion   = "Sales by Region"
	ReportTopProduct = "Top 5 Products"
)

// Report is a named table with its own column schema. Reports are not
// modified after the aggregator builds them.
type Report struct {
	name    string
	columns []string
	rows    [][]interface{}
}

// NewReport copies columns and rows into a new report.
func NewReport(name string, columns []string, rows [][]interface{}) *Report {
	r := &Report{
		name:    name,
		columns: append([]string(nil), columns...),
		rows:    make([][]interface{}, len(rows)),
	}
	for i, row := range rows {
		r.rows[i] = append([]interface{}(nil), row...)
	}
	return r
}

// Name returns the report name.
func (r *Report) Name() string { return r.name }

// Columns returns a copy of the header.
func (r *Report) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Rows returns a copy of the data rows in report order.
func (r *Report) Rows() [][]interface{} {
	out := make([][]interface{}, len(r.rows))
	for i, row := range r.rows {
		out[i] = append([]interface{}(nil), row...)
	}
	return out
}

// Len returns the number of data rows.
func (r *Report) Len() int { return len(r.rows) }

// ReportSet maps report names to reports and keeps insertion order, which is
// the sheet order of the exported workbook.
type ReportSet struct {
	order   []string
	reports map[string]*Report
}

// NewReportSet returns an empty set.
func NewReportSet() *ReportSet {
	return &ReportSet{reports: make(map[string]*Report)}
}

// Add appends a report. Names must be unique.
func (s *ReportSet) Add(r *Report) error {
	if _, exists := s.reports[r.Name()]; exists {
		return fmt.Errorf("duplicate report name %q", r.Name())
	}
	s.order = append(s.order, r.Name())
	s.reports[r.Name()] = r
	return nil
}

// Get returns the named report.
func (s *ReportSet) Get(name string) (*Report, bool) {
	if s == nil {
		return nil, false
	}
	r, ok := s.reports[name]
	return r, ok
}

// Names returns report names in insertion order.
func (s *ReportSet) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Len returns the number of reports.
func (s *ReportSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Each calls fn for every report in insertion order, stopping at the first error.
func (s *ReportSet) Each(fn func(*Report) error) error {
	if s == nil {
		return nil
	}
	for _, name := range s.order {
		if err := fn(s.reports[name]); err != nil {
			return err
		}
	}
	return nil
}
