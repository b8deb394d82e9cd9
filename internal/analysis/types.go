// Package analysis implements the profiling and drift-detection engine.
// It consumes raw tables, infers a column type for every column, computes
// per-column statistical profiles, compares the dataset against an
// optional baseline, and aggregates the findings into a scored report.
package analysis

import (
	"encoding/json"
	"fmt"
	"time"
)

// ColumnType classifies the dominant value kind of a column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeBoolean     ColumnType = "boolean"
	TypeDatetime    ColumnType = "datetime"
	TypeCategorical ColumnType = "categorical"
	TypeText        ColumnType = "text"
)

// Severity ranks a finding. The zero value is Info; ordering is
// Info < Warning < Critical so findings sort by numeric comparison.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the lowercase wire spelling of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON encodes the severity as its wire spelling.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the wire spelling back into a Severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "critical":
		*s = SeverityCritical
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", str)
	}
	return nil
}

// NumericStats summarizes a numeric column. Fields are pointers so an
// all-null column serializes as explicit nulls rather than zeros.
type NumericStats struct {
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Mean   *float64 `json:"mean"`
	StdDev *float64 `json:"stdDev"`
	P25    *float64 `json:"p25"`
	P50    *float64 `json:"p50"`
	P75    *float64 `json:"p75"`
}

// CategoryCount is one entry of a categorical frequency table.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DatetimeStats summarizes a datetime column.
type DatetimeStats struct {
	Min *time.Time `json:"min"`
	Max *time.Time `json:"max"`

	// Granularity is the finest non-zero time component observed across
	// the column: year, month, day, hour, minute, or second.
	Granularity string `json:"granularity"`
}

// TextStats summarizes a free-text column.
type TextStats struct {
	MinLength  int     `json:"minLength"`
	MaxLength  int     `json:"maxLength"`
	MeanLength float64 `json:"meanLength"`
}

// ColumnProfile is the per-column statistical summary. Exactly one of
// the type-specific stat blocks is populated, matching Type.
type ColumnProfile struct {
	Name          string     `json:"name"`
	Type          ColumnType `json:"type"`
	RowCount      int        `json:"rowCount"`
	NullCount     int        `json:"nullCount"`
	NullRate      float64    `json:"nullRate"`
	DistinctCount int        `json:"distinctCount"`

	// SampleValues holds up to five distinct non-null raw values in
	// first-seen order, for report previews.
	SampleValues []string `json:"sampleValues"`

	// OutlierCount is the number of numeric values outside 1.5 IQR
	// fences. Zero for non-numeric columns.
	OutlierCount int `json:"outlierCount"`

	Numeric    *NumericStats   `json:"numeric,omitempty"`
	Categories []CategoryCount `json:"categories,omitempty"`
	Datetime   *DatetimeStats  `json:"datetime,omitempty"`
	Text       *TextStats      `json:"text,omitempty"`
}

// Schema finding kinds.
const (
	SchemaColumnAdded   = "column_added"
	SchemaColumnRemoved = "column_removed"
	SchemaTypeChanged   = "type_changed"
)

// SchemaFinding records a structural difference between the dataset and
// the baseline.
type SchemaFinding struct {
	Kind     string     `json:"kind"`
	Column   string     `json:"column"`
	OldType  ColumnType `json:"oldType,omitempty"`
	NewType  ColumnType `json:"newType,omitempty"`
	Severity Severity   `json:"severity"`
}

// Drift metric names.
const (
	MetricNullRateDelta   = "null_rate_delta"
	MetricMeanShift       = "mean_shift"
	MetricPSI             = "population_stability_index"
	MetricNewCategory     = "new_category"
	MetricMissingCategory = "missing_category"
)

// DriftFinding records a distributional difference for one column shared
// between the dataset and the baseline.
type DriftFinding struct {
	Column   string   `json:"column"`
	Metric   string   `json:"metric"`
	Value    float64  `json:"value"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail"`
}

// Recommendation is an actionable remediation hint derived from a
// column profile.
type Recommendation struct {
	Column         string   `json:"column"`
	Issue          string   `json:"issue"`
	Recommendation string   `json:"recommendation"`
	Severity       Severity `json:"severity"`
}

// SeverityCounts tallies findings by severity across schema and drift.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// Report is the full analysis result. ID is assigned by the serving
// layer; the engine itself produces deterministic reports so identical
// inputs yield identical output.
type Report struct {
	ID              string           `json:"id,omitempty"`
	RowCount        int              `json:"rowCount"`
	ColumnCount     int              `json:"columnCount"`
	Columns         []ColumnProfile  `json:"columns"`
	SchemaFindings  []SchemaFinding  `json:"schemaFindings"`
	DriftFindings   []DriftFinding   `json:"driftFindings"`
	Recommendations []Recommendation `json:"recommendations"`
	QualityScore    int              `json:"qualityScore"`
	SeverityCounts  SeverityCounts   `json:"severityCounts"`
	ElapsedMs       int64            `json:"elapsedMs"`
}
