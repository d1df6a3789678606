package cleaner

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/daily-sales-report/internal/types"
)

// dateLayouts are tried in order. ISO forms come first so that an ambiguous
// value such as 01/02/2024 is only reached after the unambiguous ones fail.
// Month, day and hour fields are unpadded so 1/5/2024 and 01/05/2024 both
// match.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2T15:04:05",
	"2006-1-2T15:04",
	time.RFC3339,
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1-2-2006",
	"20060102",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"2 Jan 2006",
}

// ParseDate parses a cell as a calendar date. Missing cells never parse.
func ParseDate(cell types.Cell) (time.Time, bool) {
	if cell.Missing {
		return time.Time{}, false
	}

	value := strings.TrimSpace(cell.Value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a cell as a finite decimal float. It returns 0 and false
// for missing cells, unparseable text, NaN and infinities. Go literal forms
// such as 1_000 and 0x1p4 are unparseable.
func ParseNumber(cell types.Cell) (float64, bool) {
	if cell.Missing {
		return 0, false
	}

	value := strings.TrimSpace(cell.Value)
	if isGoLiteral(value) {
		return 0, false
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isGoLiteral reports whether value uses digit separators or a hex prefix,
// which strconv accepts but plain decimal text never contains.
func isGoLiteral(value string) bool {
	if strings.Contains(value, "_") {
		return true
	}
	unsigned := strings.TrimLeft(value, "+-")
	return strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X")
}
