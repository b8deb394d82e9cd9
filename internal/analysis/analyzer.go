package analysis

import (
	"context"
	"fmt"
	"time"

	"driftwatch/internal/config"
	"driftwatch/internal/table"
)

// Analyze profiles every column of the dataset and, when a baseline is
// supplied, diffs schemas and detects drift against it. The result is
// deterministic: identical inputs produce identical reports. The ID
// field is left empty for the caller to assign.
func Analyze(ctx context.Context, dataset, baseline *table.Table, cfg config.AnalysisConfig) (*Report, error) {
	start := time.Now()

	if dataset == nil || dataset.NumCols() == 0 {
		return nil, fmt.Errorf("%w: dataset has no columns", table.ErrInvalidTable)
	}

	datasetTypes := inferSchema(dataset, cfg)
	profiles, err := buildProfiles(ctx, dataset, datasetTypes, cfg)
	if err != nil {
		return nil, fmt.Errorf("profile dataset: %w", err)
	}

	// Profiles may have degraded a column to text; drift and the schema
	// diff see the degraded types, not the raw inference.
	typesByName := make(map[string]ColumnType, len(profiles))
	for _, p := range profiles {
		typesByName[p.Name] = p.Type
	}

	schemaFindings := []SchemaFinding{}
	driftFindings := []DriftFinding{}

	if baseline != nil && baseline.NumCols() == 0 {
		return nil, fmt.Errorf("%w: baseline has no columns", table.ErrInvalidTable)
	}

	// A baseline without data rows carries no schema or distribution
	// worth comparing against; treat it like no baseline at all.
	if baseline != nil && baseline.NumRows() > 0 {
		baselineTypes := inferSchema(baseline, cfg)
		baseProfiles, err := buildProfiles(ctx, baseline, baselineTypes, cfg)
		if err != nil {
			return nil, fmt.Errorf("profile baseline: %w", err)
		}
		baseTypesByName := make(map[string]ColumnType, len(baseProfiles))
		for _, p := range baseProfiles {
			baseTypesByName[p.Name] = p.Type
		}

		schemaFindings = diffSchemas(dataset, baseline, typesByName, baseTypesByName)

		driftFindings, err = detectDrift(ctx, dataset, baseline, typesByName, baseTypesByName, cfg)
		if err != nil {
			return nil, fmt.Errorf("detect drift: %w", err)
		}
	}

	sortSchemaFindings(schemaFindings)
	sortDriftFindings(driftFindings)
	counts := tallySeverities(schemaFindings, driftFindings)

	return &Report{
		RowCount:        dataset.NumRows(),
		ColumnCount:     dataset.NumCols(),
		Columns:         profiles,
		SchemaFindings:  schemaFindings,
		DriftFindings:   driftFindings,
		Recommendations: buildRecommendations(profiles, cfg),
		QualityScore:    qualityScore(counts),
		SeverityCounts:  counts,
		ElapsedMs:       time.Since(start).Milliseconds(),
	}, nil
}
