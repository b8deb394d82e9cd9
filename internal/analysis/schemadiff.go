package analysis

import "driftwatch/internal/table"

// diffSchemas compares the dataset against the baseline by exact column
// name. Findings come out removed first (baseline order), then added
// (dataset order), then type changes (dataset order). Types compared
// are the post-degradation profile types, so a column that fell back to
// text diffs as text.
func diffSchemas(dataset, baseline *table.Table, datasetTypes, baselineTypes map[string]ColumnType) []SchemaFinding {
	findings := []SchemaFinding{}

	for _, name := range baseline.Columns() {
		if _, ok := dataset.Index(name); !ok {
			findings = append(findings, SchemaFinding{
				Kind:     SchemaColumnRemoved,
				Column:   name,
				OldType:  baselineTypes[name],
				Severity: SeverityCritical,
			})
		}
	}

	for _, name := range dataset.Columns() {
		if _, ok := baseline.Index(name); !ok {
			findings = append(findings, SchemaFinding{
				Kind:     SchemaColumnAdded,
				Column:   name,
				NewType:  datasetTypes[name],
				Severity: SeverityWarning,
			})
		}
	}

	for _, name := range dataset.Columns() {
		if _, ok := baseline.Index(name); !ok {
			continue
		}
		oldType, newType := baselineTypes[name], datasetTypes[name]
		if oldType != newType {
			findings = append(findings, SchemaFinding{
				Kind:     SchemaTypeChanged,
				Column:   name,
				OldType:  oldType,
				NewType:  newType,
				Severity: SeverityWarning,
			})
		}
	}

	return findings
}
