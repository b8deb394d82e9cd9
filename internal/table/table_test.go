package table

import (
	"errors"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	tbl, err := New([]string{"a", "b"}, [][]Value{
		{Text("1"), Text("2")},
		{Text("x"), MissingValue},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if tbl.NumCols() != 2 {
		t.Errorf("NumCols() = %d, want 2", tbl.NumCols())
	}
	if tbl.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", tbl.NumRows())
	}
	if i, ok := tbl.Index("b"); !ok || i != 1 {
		t.Errorf("Index(b) = %d, %v, want 1, true", i, ok)
	}
	if _, ok := tbl.Index("missing"); ok {
		t.Error("Index(missing) should not be found")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		cells   [][]Value
	}{
		{"no columns", []string{}, [][]Value{}},
		{"duplicate names", []string{"a", "a"}, [][]Value{{}, {}}},
		{"empty name", []string{""}, [][]Value{{}}},
		{"ragged columns", []string{"a", "b"}, [][]Value{{Text("1")}, {}}},
		{"cell count mismatch", []string{"a", "b"}, [][]Value{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.columns, tt.cells)
			if !errors.Is(err, ErrInvalidTable) {
				t.Errorf("New() error = %v, want ErrInvalidTable", err)
			}
		})
	}
}

func TestRow(t *testing.T) {
	tbl, err := New([]string{"a", "b"}, [][]Value{
		{Text("1")},
		{MissingValue},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	row := tbl.Row(0)
	if row["a"] != "1" {
		t.Errorf("row[a] = %v, want 1", row["a"])
	}
	if row["b"] != nil {
		t.Errorf("row[b] = %v, want nil", row["b"])
	}
}

func TestIsMissingMarker(t *testing.T) {
	missing := []string{"", "null", "NULL", "Na", "N/A", "nan", "None", "  null  "}
	for _, s := range missing {
		if !IsMissingMarker(s) {
			t.Errorf("IsMissingMarker(%q) = false, want true", s)
		}
	}

	present := []string{"0", "false", "nil", "n.a.", "value"}
	for _, s := range present {
		if IsMissingMarker(s) {
			t.Errorf("IsMissingMarker(%q) = true, want false", s)
		}
	}
}
