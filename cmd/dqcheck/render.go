package main

import (
	"fmt"
	"io"
	"strings"

	pretty "github.com/jedib0t/go-pretty/v6/table"

	"driftwatch/internal/analysis"
)

// renderReport prints the full report as formatted tables.
func renderReport(w io.Writer, r *analysis.Report) {
	fmt.Fprintf(w, "Quality score: %d/100  (%d critical, %d warning, %d info)\n",
		r.QualityScore,
		r.SeverityCounts.Critical,
		r.SeverityCounts.Warning,
		r.SeverityCounts.Info,
	)
	fmt.Fprintf(w, "%d rows, %d columns, analyzed in %d ms\n\n",
		r.RowCount, r.ColumnCount, r.ElapsedMs)

	renderColumns(w, r.Columns)

	if len(r.SchemaFindings) > 0 || len(r.DriftFindings) > 0 {
		fmt.Fprintln(w)
		renderFindings(w, r)
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recommendations:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  [%s] %s: %s; %s\n",
				rec.Severity, rec.Column, rec.Issue, rec.Recommendation)
		}
	}
}

func renderColumns(w io.Writer, profiles []analysis.ColumnProfile) {
	t := pretty.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(pretty.StyleLight)
	t.AppendHeader(pretty.Row{"Column", "Type", "Nulls", "Distinct", "Summary"})

	for _, p := range profiles {
		t.AppendRow(pretty.Row{
			p.Name,
			string(p.Type),
			fmt.Sprintf("%d (%.1f%%)", p.NullCount, p.NullRate*100),
			p.DistinctCount,
			profileSummary(p),
		})
	}
	t.Render()
}

func renderFindings(w io.Writer, r *analysis.Report) {
	t := pretty.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(pretty.StyleLight)
	t.AppendHeader(pretty.Row{"Severity", "Column", "Kind", "Detail"})

	for _, f := range r.SchemaFindings {
		t.AppendRow(pretty.Row{f.Severity.String(), f.Column, f.Kind, schemaDetail(f)})
	}
	for _, f := range r.DriftFindings {
		t.AppendRow(pretty.Row{f.Severity.String(), f.Column, f.Metric, f.Detail})
	}
	t.Render()
}

// profileSummary condenses the type-specific stats into one cell.
func profileSummary(p analysis.ColumnProfile) string {
	switch {
	case p.Numeric != nil && p.Numeric.Mean != nil:
		s := fmt.Sprintf("min %.4g, mean %.4g, max %.4g",
			*p.Numeric.Min, *p.Numeric.Mean, *p.Numeric.Max)
		if p.OutlierCount > 0 {
			s += fmt.Sprintf(", %d outliers", p.OutlierCount)
		}
		return s

	case len(p.Categories) > 0:
		parts := make([]string, 0, 3)
		for i, c := range p.Categories {
			if i == 3 {
				parts = append(parts, "...")
				break
			}
			parts = append(parts, fmt.Sprintf("%s (%d)", c.Value, c.Count))
		}
		return strings.Join(parts, ", ")

	case p.Datetime != nil && p.Datetime.Min != nil:
		return fmt.Sprintf("%s to %s, %s granularity",
			p.Datetime.Min.Format("2006-01-02"),
			p.Datetime.Max.Format("2006-01-02"),
			p.Datetime.Granularity)

	case p.Text != nil:
		return fmt.Sprintf("length %d-%d, mean %.1f",
			p.Text.MinLength, p.Text.MaxLength, p.Text.MeanLength)
	}
	return ""
}

func schemaDetail(f analysis.SchemaFinding) string {
	switch f.Kind {
	case analysis.SchemaTypeChanged:
		return fmt.Sprintf("%s to %s", f.OldType, f.NewType)
	case analysis.SchemaColumnRemoved:
		return fmt.Sprintf("was %s", f.OldType)
	default:
		return fmt.Sprintf("is %s", f.NewType)
	}
}
