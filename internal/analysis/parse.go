package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericPattern matches plain and scientific notation numbers with an
// optional sign. Currency symbols, thousands separators, and other
// locale decoration are deliberately not accepted.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// parseNumber parses a cell as a float64. The regexp gate keeps
// strconv's more permissive forms (hex floats, "Inf", "NaN") out of
// numeric columns.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseBoolLiteral accepts only the spellings "true" and "false",
// case-insensitively. 1/0 and yes/no stay numeric or categorical.
func parseBoolLiteral(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// datetimeLayouts are tried in order. Ordered longest first so that a
// timestamp never half-matches a date-only layout.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseDatetime parses a cell against the supported layouts. Values
// without an explicit zone are interpreted as UTC so that comparisons
// across rows are stable.
func parseDatetime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
