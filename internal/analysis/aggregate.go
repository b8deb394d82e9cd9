package analysis

import (
	"fmt"
	"sort"

	"driftwatch/internal/config"
)

// Score deductions per finding severity.
const (
	criticalPenalty = 15
	warningPenalty  = 5
	infoPenalty     = 1
)

// qualityScore deducts per finding from a perfect 100, floored at 0.
func qualityScore(counts SeverityCounts) int {
	score := 100 -
		criticalPenalty*counts.Critical -
		warningPenalty*counts.Warning -
		infoPenalty*counts.Info
	if score < 0 {
		return 0
	}
	return score
}

// tallySeverities counts schema and drift findings together.
func tallySeverities(schema []SchemaFinding, drift []DriftFinding) SeverityCounts {
	var counts SeverityCounts
	bump := func(s Severity) {
		switch s {
		case SeverityCritical:
			counts.Critical++
		case SeverityWarning:
			counts.Warning++
		default:
			counts.Info++
		}
	}
	for _, f := range schema {
		bump(f.Severity)
	}
	for _, f := range drift {
		bump(f.Severity)
	}
	return counts
}

// sortSchemaFindings orders by severity descending, then column, then kind.
func sortSchemaFindings(findings []SchemaFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Kind < b.Kind
	})
}

// sortDriftFindings orders by severity descending, then column, then
// metric, then detail so repeated category findings keep a stable order.
func sortDriftFindings(findings []DriftFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		return a.Detail < b.Detail
	})
}

// buildRecommendations derives remediation hints from column profiles.
func buildRecommendations(profiles []ColumnProfile, cfg config.AnalysisConfig) []Recommendation {
	recs := []Recommendation{}

	for _, p := range profiles {
		if p.NullRate >= cfg.NullRateWarning {
			sev := SeverityWarning
			if p.NullRate >= cfg.NullRateCritical {
				sev = SeverityCritical
			}
			recs = append(recs, Recommendation{
				Column:         p.Name,
				Issue:          fmt.Sprintf("%.1f%% of values are missing", p.NullRate*100),
				Recommendation: "impute or drop missing values, or fix the upstream extraction",
				Severity:       sev,
			})
		}

		if p.OutlierCount > 0 {
			recs = append(recs, Recommendation{
				Column:         p.Name,
				Issue:          fmt.Sprintf("%d values fall outside the interquartile fences", p.OutlierCount),
				Recommendation: "inspect extreme values for unit mismatches or entry errors",
				Severity:       SeverityWarning,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Issue < b.Issue
	})
	return recs
}
