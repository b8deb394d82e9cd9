package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LoadCSV parses CSV bytes into a Table. The first record is the header;
// every later record is a data row. Cells are kept raw, with common null
// spellings converted to explicit missing markers.
//
// Ragged records (a row with the wrong field count) and header problems
// are structural failures and surface as ErrInvalidTable so callers can
// reject the upload before any analysis work starts.
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(NewSanitizedReader(r))
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidTable, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = CleanHeader(h)
	}

	cells := make([][]Value, len(columns))
	for i := range cells {
		cells[i] = []Value{}
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%w: line %d has %d fields, expected %d",
					ErrInvalidTable, parseErr.Line, len(record), len(columns))
			}
			return nil, fmt.Errorf("%w: parse csv: %v", ErrInvalidTable, err)
		}

		if isEmptyRecord(record) {
			continue
		}

		for i := range columns {
			raw := CleanCell(record[i])
			if IsMissingMarker(raw) {
				cells[i] = append(cells[i], MissingValue)
			} else {
				cells[i] = append(cells[i], Value{Text: raw})
			}
		}
	}

	return New(columns, cells)
}

// CleanHeader normalizes a header cell: trims whitespace and strips the
// ="..." wrapper Excel adds to force text formatting.
func CleanHeader(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) > 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// CleanCell trims whitespace and strips the Excel text-format wrapper
// from a data cell.
func CleanCell(s string) string {
	return CleanHeader(s)
}

// isEmptyRecord reports whether every field is blank. Fully empty rows
// (trailing newlines, spreadsheet artifacts) are skipped rather than
// counted as rows of missing values.
func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
