package analysis

import (
	"context"
	"math"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"driftwatch/internal/config"
	"driftwatch/internal/table"
)

// maxSampleValues is how many distinct non-null values a profile keeps
// for previews.
const maxSampleValues = 5

// buildProfiles computes one profile per column, fanning out across
// columns with a bounded errgroup. Results land in a position-indexed
// slice so output order matches table order regardless of scheduling.
func buildProfiles(ctx context.Context, t *table.Table, types []ColumnType, cfg config.AnalysisConfig) ([]ColumnProfile, error) {
	profiles := make([]ColumnProfile, t.NumCols())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < t.NumCols(); i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			profiles[i] = profileColumn(t.Name(i), t.Column(i), types[i], cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// profileColumn summarizes a single column under its inferred type.
// A column whose non-missing values turn out fully unparsable for the
// type degrades to a text profile instead of failing the analysis.
func profileColumn(name string, values []table.Value, typ ColumnType, cfg config.AnalysisConfig) ColumnProfile {
	p := ColumnProfile{
		Name:         name,
		Type:         typ,
		RowCount:     len(values),
		SampleValues: []string{},
	}

	distinct := make(map[string]struct{})
	for _, v := range values {
		if v.Missing {
			p.NullCount++
			continue
		}
		if _, seen := distinct[v.Text]; !seen {
			distinct[v.Text] = struct{}{}
			if len(p.SampleValues) < maxSampleValues {
				p.SampleValues = append(p.SampleValues, v.Text)
			}
		}
	}
	p.DistinctCount = len(distinct)
	p.NullRate = float64(p.NullCount) / float64(max(len(values), 1))

	switch typ {
	case TypeNumeric:
		nums := numericValues(values)
		if len(nums) == 0 && p.NullCount < len(values) {
			p.Type = TypeText
			p.Text = textStats(values)
			return p
		}
		p.Numeric = numericStats(nums)
		p.OutlierCount = countOutliers(nums)

	case TypeBoolean, TypeCategorical:
		p.Categories = topCategories(values, cfg.TopN)

	case TypeDatetime:
		times := datetimeValues(values)
		if len(times) == 0 && p.NullCount < len(values) {
			p.Type = TypeText
			p.Text = textStats(values)
			return p
		}
		p.Datetime = datetimeStats(times)

	default:
		p.Text = textStats(values)
	}

	return p
}

// numericValues parses the non-missing cells of a numeric column.
func numericValues(values []table.Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Missing {
			continue
		}
		if f, ok := parseNumber(v.Text); ok {
			out = append(out, f)
		}
	}
	return out
}

// numericStats computes min/max/mean/std and quartiles. Population
// standard deviation (divide by N); quantiles interpolate linearly
// between order statistics. All fields stay nil when no values parsed.
func numericStats(nums []float64) *NumericStats {
	s := &NumericStats{}
	if len(nums) == 0 {
		return s
	}

	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, f := range sorted {
		sum += f
	}
	mean := sum / float64(len(sorted))

	variance := 0.0
	for _, f := range sorted {
		d := f - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(sorted)))

	s.Min = ptr(sorted[0])
	s.Max = ptr(sorted[len(sorted)-1])
	s.Mean = ptr(mean)
	s.StdDev = ptr(std)
	s.P25 = ptr(quantile(sorted, 0.25))
	s.P50 = ptr(quantile(sorted, 0.50))
	s.P75 = ptr(quantile(sorted, 0.75))
	return s
}

// quantile returns the q-th quantile of sorted values by linear
// interpolation at position q*(n-1).
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// countOutliers counts values outside the 1.5 IQR fences. A degenerate
// IQR of zero reports no outliers rather than flagging every value off
// the single spike.
func countOutliers(nums []float64) int {
	if len(nums) < 4 {
		return 0
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	if iqr == 0 {
		return 0
	}

	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr
	n := 0
	for _, f := range sorted {
		if f < lo || f > hi {
			n++
		}
	}
	return n
}

// topCategories returns the n most frequent non-missing values, ordered
// by descending count with first-seen order breaking ties.
func topCategories(values []table.Value, n int) []CategoryCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, v := range values {
		if v.Missing {
			continue
		}
		if _, ok := counts[v.Text]; !ok {
			firstSeen[v.Text] = order
			order++
		}
		counts[v.Text]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for val, c := range counts {
		out = append(out, CategoryCount{Value: val, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Value] < firstSeen[out[j].Value]
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// datetimeValues parses the non-missing cells of a datetime column.
func datetimeValues(values []table.Value) []time.Time {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		if v.Missing {
			continue
		}
		if t, ok := parseDatetime(v.Text); ok {
			out = append(out, t)
		}
	}
	return out
}

// datetimeStats computes min/max and the finest time component any
// value actually uses. A column of pure dates reports "day"; one with
// wall-clock seconds reports "second".
func datetimeStats(times []time.Time) *DatetimeStats {
	s := &DatetimeStats{Granularity: "day"}
	if len(times) == 0 {
		return s
	}

	minT, maxT := times[0], times[0]
	finest := 0 // 0=year 1=month 2=day 3=hour 4=minute 5=second
	for _, t := range times {
		if t.Before(minT) {
			minT = t
		}
		if t.After(maxT) {
			maxT = t
		}
		g := 0
		switch {
		case t.Second() != 0 || t.Nanosecond() != 0:
			g = 5
		case t.Minute() != 0:
			g = 4
		case t.Hour() != 0:
			g = 3
		case t.Day() != 1:
			g = 2
		case t.Month() != time.January:
			g = 1
		}
		if g > finest {
			finest = g
		}
	}

	s.Min = ptr(minT)
	s.Max = ptr(maxT)
	s.Granularity = [...]string{"year", "month", "day", "hour", "minute", "second"}[finest]
	return s
}

// textStats computes length statistics in runes over non-missing cells.
func textStats(values []table.Value) *TextStats {
	s := &TextStats{}
	n := 0
	total := 0
	for _, v := range values {
		if v.Missing {
			continue
		}
		l := len([]rune(strings.TrimSpace(v.Text)))
		if n == 0 {
			s.MinLength, s.MaxLength = l, l
		} else {
			if l < s.MinLength {
				s.MinLength = l
			}
			if l > s.MaxLength {
				s.MaxLength = l
			}
		}
		total += l
		n++
	}
	if n > 0 {
		s.MeanLength = float64(total) / float64(n)
	}
	return s
}

func ptr[T any](v T) *T { return &v }
