package analysis

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"driftwatch/internal/config"
	"driftwatch/internal/table"
)

// meanShiftEpsilon guards the mean-shift denominator when the baseline
// column has zero variance.
const meanShiftEpsilon = 1e-9

// psiFloor keeps proportions away from zero so the PSI log term stays
// finite when a bin or category is empty on one side.
const psiFloor = 1e-6

// detectDrift compares shared same-type columns between the dataset and
// the baseline. Columns whose type changed are left to the schema diff;
// a baseline with no data rows yields no drift findings at all. Metrics
// fire independently and anything below every threshold stays silent.
func detectDrift(ctx context.Context, dataset, baseline *table.Table, datasetTypes, baselineTypes map[string]ColumnType, cfg config.AnalysisConfig) ([]DriftFinding, error) {
	if baseline.NumRows() == 0 {
		return []DriftFinding{}, nil
	}

	cols := dataset.Columns()
	perColumn := make([][]DriftFinding, len(cols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range cols {
		bi, ok := baseline.Index(name)
		if !ok || datasetTypes[name] != baselineTypes[name] {
			continue
		}
		di, _ := dataset.Index(name)

		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perColumn[i] = driftColumn(name, datasetTypes[name],
				dataset.Column(di), baseline.Column(bi), cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	findings := []DriftFinding{}
	for _, fs := range perColumn {
		findings = append(findings, fs...)
	}
	return findings, nil
}

// driftColumn runs every metric applicable to the column type.
func driftColumn(name string, typ ColumnType, ds, base []table.Value, cfg config.AnalysisConfig) []DriftFinding {
	findings := []DriftFinding{}

	if f, ok := nullRateDelta(name, ds, base, cfg); ok {
		findings = append(findings, f)
	}

	switch typ {
	case TypeNumeric:
		dsNums := numericValues(ds)
		baseNums := numericValues(base)
		if len(dsNums) > 0 && len(baseNums) > 0 {
			if f, ok := meanShift(name, dsNums, baseNums, cfg); ok {
				findings = append(findings, f)
			}
			if f, ok := numericPSI(name, dsNums, baseNums, cfg); ok {
				findings = append(findings, f)
			}
		}

	case TypeCategorical, TypeBoolean:
		dsFreq, dsTotal := categoryFrequencies(ds)
		baseFreq, baseTotal := categoryFrequencies(base)
		if dsTotal > 0 && baseTotal > 0 {
			if f, ok := categoricalPSI(name, dsFreq, dsTotal, baseFreq, baseTotal, cfg); ok {
				findings = append(findings, f)
			}
			findings = append(findings, categoryChanges(name, dsFreq, dsTotal, baseFreq, baseTotal, cfg)...)
		}
	}

	return findings
}

// nullRateDelta flags a change in the share of missing values.
func nullRateDelta(name string, ds, base []table.Value, cfg config.AnalysisConfig) (DriftFinding, bool) {
	dsRate := nullRate(ds)
	baseRate := nullRate(base)
	delta := math.Abs(dsRate - baseRate)

	var sev Severity
	switch {
	case delta > cfg.NullRateCritical:
		sev = SeverityCritical
	case delta > cfg.NullRateWarning:
		sev = SeverityWarning
	case delta > cfg.NullRateMin:
		sev = SeverityInfo
	default:
		return DriftFinding{}, false
	}

	return DriftFinding{
		Column:   name,
		Metric:   MetricNullRateDelta,
		Value:    delta,
		Severity: sev,
		Detail:   fmt.Sprintf("null rate moved from %.1f%% to %.1f%%", baseRate*100, dsRate*100),
	}, true
}

func nullRate(values []table.Value) float64 {
	if len(values) == 0 {
		return 0
	}
	nulls := 0
	for _, v := range values {
		if v.Missing {
			nulls++
		}
	}
	return float64(nulls) / float64(len(values))
}

// meanShift flags a mean displacement measured in baseline standard
// deviations.
func meanShift(name string, dsNums, baseNums []float64, cfg config.AnalysisConfig) (DriftFinding, bool) {
	dsMean := mean(dsNums)
	baseMean := mean(baseNums)
	baseStd := populationStd(baseNums, baseMean)

	shift := math.Abs(dsMean-baseMean) / math.Max(baseStd, meanShiftEpsilon)

	var sev Severity
	switch {
	case shift >= cfg.MeanShiftCritical:
		sev = SeverityCritical
	case shift >= cfg.MeanShiftWarning:
		sev = SeverityWarning
	default:
		return DriftFinding{}, false
	}

	return DriftFinding{
		Column:   name,
		Metric:   MetricMeanShift,
		Value:    shift,
		Severity: sev,
		Detail: fmt.Sprintf("mean shifted %.2f standard deviations (%.4g to %.4g)",
			shift, baseMean, dsMean),
	}, true
}

func mean(nums []float64) float64 {
	sum := 0.0
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums))
}

func populationStd(nums []float64, m float64) float64 {
	variance := 0.0
	for _, f := range nums {
		d := f - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(nums)))
}

// numericPSI computes the population stability index over equal-width
// bins fit to the baseline range. Dataset values outside the baseline
// range clamp to the edge bins.
func numericPSI(name string, dsNums, baseNums []float64, cfg config.AnalysisConfig) (DriftFinding, bool) {
	lo, hi := baseNums[0], baseNums[0]
	for _, f := range baseNums {
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}

	bins := cfg.PSIBins
	if hi == lo {
		bins = 1
	}

	baseCounts := binCounts(baseNums, lo, hi, bins)
	dsCounts := binCounts(dsNums, lo, hi, bins)

	psi := 0.0
	for i := 0; i < bins; i++ {
		bp := math.Max(float64(baseCounts[i])/float64(len(baseNums)), psiFloor)
		dp := math.Max(float64(dsCounts[i])/float64(len(dsNums)), psiFloor)
		psi += (dp - bp) * math.Log(dp/bp)
	}

	return psiFinding(name, psi, cfg)
}

// binCounts assigns values to equal-width bins over [lo, hi], clamping
// out-of-range values to the nearest edge bin.
func binCounts(nums []float64, lo, hi float64, bins int) []int {
	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	for _, f := range nums {
		idx := 0
		if width > 0 {
			idx = int((f - lo) / width)
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts
}

// categoricalPSI computes PSI over the union of categories seen on
// either side.
func categoricalPSI(name string, dsFreq map[string]int, dsTotal int, baseFreq map[string]int, baseTotal int, cfg config.AnalysisConfig) (DriftFinding, bool) {
	union := make(map[string]struct{}, len(dsFreq)+len(baseFreq))
	for c := range dsFreq {
		union[c] = struct{}{}
	}
	for c := range baseFreq {
		union[c] = struct{}{}
	}

	psi := 0.0
	for c := range union {
		bp := math.Max(float64(baseFreq[c])/float64(baseTotal), psiFloor)
		dp := math.Max(float64(dsFreq[c])/float64(dsTotal), psiFloor)
		psi += (dp - bp) * math.Log(dp/bp)
	}

	return psiFinding(name, psi, cfg)
}

func psiFinding(name string, psi float64, cfg config.AnalysisConfig) (DriftFinding, bool) {
	var sev Severity
	switch {
	case psi >= cfg.PSICritical:
		sev = SeverityCritical
	case psi >= cfg.PSIWarning:
		sev = SeverityWarning
	default:
		return DriftFinding{}, false
	}

	return DriftFinding{
		Column:   name,
		Metric:   MetricPSI,
		Value:    psi,
		Severity: sev,
		Detail:   fmt.Sprintf("distribution shifted, PSI %.3f", psi),
	}, true
}

// categoryChanges emits one finding per category that appeared in the
// dataset or disappeared from the baseline. Disappearance only matters
// for categories that carried real baseline share.
func categoryChanges(name string, dsFreq map[string]int, dsTotal int, baseFreq map[string]int, baseTotal int, cfg config.AnalysisConfig) []DriftFinding {
	findings := []DriftFinding{}

	for _, c := range sortedKeys(dsFreq) {
		if _, ok := baseFreq[c]; ok {
			continue
		}
		share := float64(dsFreq[c]) / float64(dsTotal)
		findings = append(findings, DriftFinding{
			Column:   name,
			Metric:   MetricNewCategory,
			Value:    share,
			Severity: SeverityWarning,
			Detail:   fmt.Sprintf("new category %q (%.1f%% of rows)", c, share*100),
		})
	}

	for _, c := range sortedKeys(baseFreq) {
		if _, ok := dsFreq[c]; ok {
			continue
		}
		share := float64(baseFreq[c]) / float64(baseTotal)
		if share < cfg.MissingCategoryMinShare {
			continue
		}
		findings = append(findings, DriftFinding{
			Column:   name,
			Metric:   MetricMissingCategory,
			Value:    share,
			Severity: SeverityCritical,
			Detail:   fmt.Sprintf("category %q (%.1f%% of baseline) disappeared", c, share*100),
		})
	}

	return findings
}

// categoryFrequencies counts non-missing values.
func categoryFrequencies(values []table.Value) (map[string]int, int) {
	freq := make(map[string]int)
	total := 0
	for _, v := range values {
		if v.Missing {
			continue
		}
		freq[v.Text]++
		total++
	}
	return freq, total
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
