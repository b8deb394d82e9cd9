package analysis

import (
	"context"
	"math"
	"testing"
)

func findByMetric(findings []DriftFinding, metric string) []DriftFinding {
	out := []DriftFinding{}
	for _, f := range findings {
		if f.Metric == metric {
			out = append(out, f)
		}
	}
	return out
}

func TestNullRateDelta(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name     string
		dataset  []string
		baseline []string
		wantSev  Severity
		wantFire bool
	}{
		{
			name:     "critical jump",
			dataset:  []string{"", "", "", "1", "2", "3", "4", "5", "6", "7"},
			baseline: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
			wantSev:  SeverityCritical,
			wantFire: true,
		},
		{
			name:     "warning jump",
			dataset:  []string{"", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
			baseline: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
			wantSev:  SeverityWarning,
			wantFire: true,
		},
		{
			name:     "no change",
			dataset:  []string{"1", "2", "3"},
			baseline: []string{"4", "5", "6"},
			wantFire: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, fired := nullRateDelta("v", col(tt.dataset...), col(tt.baseline...), cfg)
			if fired != tt.wantFire {
				t.Fatalf("fired = %v, want %v", fired, tt.wantFire)
			}
			if fired && f.Severity != tt.wantSev {
				t.Errorf("Severity = %v, want %v", f.Severity, tt.wantSev)
			}
		})
	}
}

func TestNullRateDelta_InfoTier(t *testing.T) {
	cfg := testConfig()

	// 3 nulls of 100 against a clean baseline: delta 0.03 sits between
	// the 0.01 floor and the 0.05 warning threshold.
	dataset := append([]string{"", "", ""}, repeat("1", 97)...)
	baseline := repeat("1", 100)

	f, fired := nullRateDelta("v", col(dataset...), col(baseline...), cfg)
	if !fired {
		t.Fatal("expected info finding")
	}
	if f.Severity != SeverityInfo {
		t.Errorf("Severity = %v, want %v", f.Severity, SeverityInfo)
	}

	// 1 null of 200: delta 0.005 is under the floor and stays silent.
	dataset = append([]string{""}, repeat("1", 199)...)
	baseline = repeat("1", 200)
	if _, fired := nullRateDelta("v", col(dataset...), col(baseline...), cfg); fired {
		t.Error("delta below floor should not fire")
	}
}

func TestMeanShift(t *testing.T) {
	cfg := testConfig()

	// Baseline mean 40, population std 10.
	baseline := []float64{30, 50}

	f, fired := meanShift("v", []float64{65, 85}, baseline, cfg)
	if !fired {
		t.Fatal("expected critical mean shift")
	}
	if f.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want %v", f.Severity, SeverityCritical)
	}
	if math.Abs(f.Value-3.5) > 1e-12 {
		t.Errorf("Value = %g, want 3.5", f.Value)
	}

	f, fired = meanShift("v", []float64{50, 70}, baseline, cfg)
	if !fired {
		t.Fatal("expected warning mean shift")
	}
	if f.Severity != SeverityWarning {
		t.Errorf("Severity = %v, want %v", f.Severity, SeverityWarning)
	}

	if _, fired := meanShift("v", []float64{35, 55}, baseline, cfg); fired {
		t.Error("0.5 std shift should not fire")
	}
}

func TestMeanShift_ZeroVarianceBaseline(t *testing.T) {
	// Constant baseline: the epsilon denominator makes any real shift
	// astronomically large rather than dividing by zero.
	f, fired := meanShift("v", []float64{11, 11}, []float64{10, 10}, testConfig())
	if !fired {
		t.Fatal("expected finding against constant baseline")
	}
	if f.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want %v", f.Severity, SeverityCritical)
	}
}

func TestNumericPSI(t *testing.T) {
	cfg := testConfig()

	uniform := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	// Same distribution: PSI stays quiet.
	if _, fired := numericPSI("v", uniform, uniform, cfg); fired {
		t.Error("identical distributions should not fire")
	}

	// Everything collapsed into the top bin: huge PSI.
	collapsed := []float64{9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	f, fired := numericPSI("v", collapsed, uniform, cfg)
	if !fired {
		t.Fatal("expected PSI finding")
	}
	if f.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want %v", f.Severity, SeverityCritical)
	}

	// Out-of-range dataset values clamp to edge bins instead of panicking.
	outOfRange := []float64{-100, 200}
	if _, fired := numericPSI("v", outOfRange, uniform, cfg); !fired {
		t.Error("expected PSI finding for out-of-range dataset")
	}
}

func TestDetectDrift_CategoricalChanges(t *testing.T) {
	baselineVals := append(repeat("active", 9), "closed")
	datasetVals := append(repeat("active", 9), "pending")

	baseline := mustTable(t, []string{"status"}, [][]string{baselineVals})
	dataset := mustTable(t, []string{"status"}, [][]string{datasetVals})
	types := map[string]ColumnType{"status": TypeCategorical}

	findings, err := detectDrift(context.Background(), dataset, baseline, types, types, testConfig())
	if err != nil {
		t.Fatalf("detectDrift() error = %v", err)
	}

	newCat := findByMetric(findings, MetricNewCategory)
	if len(newCat) != 1 {
		t.Fatalf("new_category findings = %d, want 1", len(newCat))
	}
	if newCat[0].Severity != SeverityWarning {
		t.Errorf("new_category severity = %v, want %v", newCat[0].Severity, SeverityWarning)
	}
	if math.Abs(newCat[0].Value-0.1) > 1e-12 {
		t.Errorf("new_category value = %g, want 0.1", newCat[0].Value)
	}

	missing := findByMetric(findings, MetricMissingCategory)
	if len(missing) != 1 {
		t.Fatalf("missing_category findings = %d, want 1", len(missing))
	}
	if missing[0].Severity != SeverityCritical {
		t.Errorf("missing_category severity = %v, want %v", missing[0].Severity, SeverityCritical)
	}
}

func TestDetectDrift_MissingCategoryBelowShare(t *testing.T) {
	// "closed" is 1 of 50 baseline rows (2%), below the 5% share floor,
	// so its disappearance is not flagged.
	baselineVals := append(repeat("active", 49), "closed")
	datasetVals := repeat("active", 50)

	baseline := mustTable(t, []string{"status"}, [][]string{baselineVals})
	dataset := mustTable(t, []string{"status"}, [][]string{datasetVals})
	types := map[string]ColumnType{"status": TypeCategorical}

	findings, err := detectDrift(context.Background(), dataset, baseline, types, types, testConfig())
	if err != nil {
		t.Fatalf("detectDrift() error = %v", err)
	}
	if got := findByMetric(findings, MetricMissingCategory); len(got) != 0 {
		t.Errorf("missing_category findings = %d, want 0: %+v", len(got), got)
	}
}

func TestDetectDrift_TypeMismatchSkipsColumn(t *testing.T) {
	baseline := mustTable(t, []string{"v"}, [][]string{{"1", "2", "3"}})
	dataset := mustTable(t, []string{"v"}, [][]string{{"", "", ""}})

	findings, err := detectDrift(context.Background(), dataset, baseline,
		map[string]ColumnType{"v": TypeText},
		map[string]ColumnType{"v": TypeNumeric},
		testConfig())
	if err != nil {
		t.Fatalf("detectDrift() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("len(findings) = %d, want 0 for type mismatch: %+v", len(findings), findings)
	}
}

func TestDetectDrift_EmptyBaseline(t *testing.T) {
	baseline := mustTable(t, []string{"v"}, [][]string{{}})
	dataset := mustTable(t, []string{"v"}, [][]string{{"1", "2"}})
	types := map[string]ColumnType{"v": TypeNumeric}

	findings, err := detectDrift(context.Background(), dataset, baseline, types, types, testConfig())
	if err != nil {
		t.Fatalf("detectDrift() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("len(findings) = %d, want 0 for empty baseline", len(findings))
	}
}
