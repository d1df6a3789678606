// =============================================================================
// Daily Sales Report - CSV Loader
// =============================================================================
//
// This module reads the sales transaction export into an in-memory table. It
// is the first stage of the pipeline and the only one that touches the source
// file.
//
// OUTCOMES:
//   - File missing                      -> types.ErrNotFound
//   - File exists, no data rows         -> empty table, no error
//   - File exists but is not valid CSV  -> types.ErrParse
//   - Otherwise                         -> table with one RawRow per data row
//
// PARSING RULES:
//   - The first record is the header row
//   - Blank lines and rows with only empty cells are skipped
//   - A UTF-8 byte order mark is removed; any other invalid UTF-8 is an error
//   - A row with more fields than the header is an error; a row with fewer
//     fields has its trailing cells marked missing
//   - Cell values are trimmed, and the usual missing markers ("NA", "null",
//     "#N/A", ...) are flagged as missing
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/daily-sales-report/internal/types"
)

// =============================================================================
// MISSING VALUE MARKERS
// =============================================================================

// missingMarkers are cell values treated as "no value". Matching is exact and
// case-sensitive, after trimming.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissingMarker reports whether a trimmed cell value means "no value".
func IsMissingMarker(value string) bool {
	_, ok := missingMarkers[value]
	return ok
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// LOADER
// =============================================================================

// Load reads the CSV file at filePath.
//
// PARAMETERS:
//   - filePath: The path to the sales data file.
//   - logger:   Receives one entry per attempt, success, and failure.
//
// RETURNS:
//   - The loaded table. It is empty (not nil) for header-only or empty files.
//   - A types.ErrNotFound or types.ErrParse kind error.
func Load(filePath string, logger logrus.FieldLogger) (*types.RawTable, error) {
	log := logger.WithField("source", filePath)
	log.Info("Attempting to load sales data")

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error("Sales data file not found")
			return nil, types.NewNotFound(filePath, err)
		}
		log.WithError(err).Error("Sales data file could not be inspected")
		return nil, types.NewParseError(filePath, err)
	}
	if info.IsDir() {
		log.Error("Sales data path is a directory")
		return nil, types.NewParseError(filePath, errors.New("path is a directory"))
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open sales data file")
		return nil, types.NewParseError(filePath, err)
	}
	defer file.Close()

	table, err := Parse(bufio.NewReader(file))
	if err != nil {
		log.WithError(err).Error("An unexpected error occurred while reading the sales data")
		return nil, types.NewParseError(filePath, err)
	}
	table.SourceFile = filePath

	if table.Empty() {
		log.WithField("columns", table.Schema.Len()).Warn("The sales data file is empty")
		return table, nil
	}

	log.WithField("records", len(table.Rows)).Info("Successfully loaded sales data")
	return table, nil
}

// Parse reads CSV content from r. It never returns a nil table on success.
func Parse(r io.Reader) (*types.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("invalid UTF-8 at byte offset %d", invalidUTF8Offset(data))
	}

	csvReader := csv.NewReader(bytes.NewReader(data))
	configureReader(csvReader)

	header, err := csvReader.Read()
	if err == io.EOF {
		return &types.RawTable{Schema: types.NewSchema(nil), Rows: []types.RawRow{}}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header row")
	}

	headers := cleanHeaders(header)
	table := &types.RawTable{
		Schema: types.NewSchema(headers),
		Rows:   []types.RawRow{},
	}

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV")
		}

		if len(record) > len(headers) {
			line, _ := csvReader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(headers), len(record))
		}

		if isRowEmpty(record) {
			continue
		}

		table.Rows = append(table.Rows, toRawRow(headers, record))
	}

	return table, nil
}

// configureReader sets up the CSV reader. The field count is checked by Parse
// so that short rows are tolerated and long rows are reported with a line number.
func configureReader(reader *csv.Reader) {
	reader.Comma = ','
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cleanHeaders trims header names, names empty headers "Unnamed: <index>", and
// suffixes duplicates with ".1", ".2", ...
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	taken := make(map[string]struct{}, len(headers))
	suffix := make(map[string]int, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}

		base := header
		for {
			if _, dup := taken[header]; !dup {
				break
			}
			suffix[base]++
			header = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		taken[header] = struct{}{}

		cleaned[i] = header
	}

	return cleaned
}

// toRawRow maps a record onto the header, marking absent trailing cells missing.
func toRawRow(headers, record []string) types.RawRow {
	row := make(types.RawRow, len(headers))
	for i, header := range headers {
		if i >= len(record) {
			row[header] = types.Cell{Missing: true}
			continue
		}
		value := strings.TrimSpace(record[i])
		row[header] = types.Cell{Value: value, Missing: IsMissingMarker(value)}
	}
	return row
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// invalidUTF8Offset returns the byte offset of the first invalid sequence.
func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
