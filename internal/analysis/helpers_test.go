package analysis

import (
	"testing"

	"driftwatch/internal/config"
	"driftwatch/internal/table"
)

// mustTable builds a column-major table for tests. An empty string in
// data marks a missing cell.
func mustTable(t *testing.T, columns []string, data [][]string) *table.Table {
	t.Helper()

	cells := make([][]table.Value, len(data))
	for i, col := range data {
		cells[i] = make([]table.Value, len(col))
		for j, s := range col {
			if s == "" {
				cells[i][j] = table.MissingValue
			} else {
				cells[i][j] = table.Value{Text: s}
			}
		}
	}

	tbl, err := table.New(columns, cells)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	return tbl
}

// col converts strings to cells, empty string meaning missing.
func col(values ...string) []table.Value {
	out := make([]table.Value, len(values))
	for i, s := range values {
		if s == "" {
			out[i] = table.MissingValue
		} else {
			out[i] = table.Value{Text: s}
		}
	}
	return out
}

// repeat returns n copies of s.
func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func testConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		NullRateCritical:        0.2,
		NullRateWarning:         0.05,
		NullRateMin:             0.01,
		MeanShiftCritical:       3,
		MeanShiftWarning:        1,
		PSIBins:                 10,
		PSICritical:             0.25,
		PSIWarning:              0.1,
		CategoricalMaxFraction:  0.2,
		CategoricalMaxDistinct:  50,
		TopN:                    10,
		MissingCategoryMinShare: 0.05,
	}
}
