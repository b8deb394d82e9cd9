package analysis

import (
	"driftwatch/internal/config"
	"driftwatch/internal/table"
)

// InferType classifies a column from its raw cells. A type wins only
// when every non-null cell parses as that type; ties break in order
// boolean, numeric, datetime. Columns that fit none of those become
// categorical when their distinct count is small relative to the
// non-null count, and text otherwise. A fully null column is text.
func InferType(values []table.Value, cfg config.AnalysisConfig) ColumnType {
	allBool := true
	allNumeric := true
	allDatetime := true
	nonNull := 0

	// Distinct tracking stops one past the categorical cap; beyond that
	// the exact count no longer affects the decision.
	distinctCap := cfg.CategoricalMaxDistinct + 1
	distinct := make(map[string]struct{}, 16)

	for _, v := range values {
		if v.Missing {
			continue
		}
		nonNull++

		if allBool {
			if _, ok := parseBoolLiteral(v.Text); !ok {
				allBool = false
			}
		}
		if allNumeric {
			if _, ok := parseNumber(v.Text); !ok {
				allNumeric = false
			}
		}
		if allDatetime {
			if _, ok := parseDatetime(v.Text); !ok {
				allDatetime = false
			}
		}
		if len(distinct) < distinctCap {
			distinct[v.Text] = struct{}{}
		}
	}

	if nonNull == 0 {
		return TypeText
	}
	if allBool {
		return TypeBoolean
	}
	if allNumeric {
		return TypeNumeric
	}
	if allDatetime {
		return TypeDatetime
	}

	d := len(distinct)
	if d <= cfg.CategoricalMaxDistinct &&
		float64(d) <= cfg.CategoricalMaxFraction*float64(nonNull) {
		return TypeCategorical
	}
	return TypeText
}

// inferSchema returns the inferred type of every column in table order.
func inferSchema(t *table.Table, cfg config.AnalysisConfig) []ColumnType {
	types := make([]ColumnType, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		types[i] = InferType(t.Column(i), cfg)
	}
	return types
}
