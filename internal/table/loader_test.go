package table

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadCSV_HappyPath(t *testing.T) {
	csv := "id,name,amount\n1,alice,10.5\n2,bob,\n"

	tbl, err := LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	if tbl.NumCols() != 3 {
		t.Errorf("NumCols() = %d, want 3", tbl.NumCols())
	}
	if tbl.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", tbl.NumRows())
	}

	i, _ := tbl.Index("amount")
	colVals := tbl.Column(i)
	if colVals[0].Text != "10.5" {
		t.Errorf("amount[0] = %q, want 10.5", colVals[0].Text)
	}
	if !colVals[1].Missing {
		t.Error("amount[1] should be missing")
	}
}

func TestLoadCSV_BOM(t *testing.T) {
	csv := "\xEF\xBB\xBFid,name\n1,x\n"

	tbl, err := LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if tbl.Name(0) != "id" {
		t.Errorf("first column = %q, want id (BOM must be stripped)", tbl.Name(0))
	}
}

func TestLoadCSV_MissingMarkers(t *testing.T) {
	csv := "v\nnull\nNA\nn/a\nNaN\nnone\nreal\n"

	tbl, err := LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	colVals := tbl.Column(0)
	for i := 0; i < 5; i++ {
		if !colVals[i].Missing {
			t.Errorf("row %d should be missing, got %q", i, colVals[i].Text)
		}
	}
	if colVals[5].Missing || colVals[5].Text != "real" {
		t.Errorf("row 5 = %+v, want present %q", colVals[5], "real")
	}
}

func TestLoadCSV_SkipsEmptyRows(t *testing.T) {
	// Quoted empty fields keep encoding/csv from collapsing the record.
	csv := "a,b\n1,2\n\"\",\"\"\n3,4\n"

	tbl, err := LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2 (blank row skipped)", tbl.NumRows())
	}
}

func TestLoadCSV_ExcelTextWrapper(t *testing.T) {
	csv := "=\"id\",name\n=\"007\",bond\n"

	tbl, err := LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if tbl.Name(0) != "id" {
		t.Errorf("first column = %q, want id", tbl.Name(0))
	}
	if got := tbl.Column(0)[0].Text; got != "007" {
		t.Errorf("id[0] = %q, want 007", got)
	}
}

func TestLoadCSV_Invalid(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"duplicate headers", "a,a\n1,2\n"},
		{"ragged row", "a,b\n1,2\n3\n"},
		{"row too wide", "a,b\n1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.csv))
			if !errors.Is(err, ErrInvalidTable) {
				t.Errorf("LoadCSV() error = %v, want ErrInvalidTable", err)
			}
		})
	}
}

func TestSanitizedReader_InvalidUTF8(t *testing.T) {
	raw := "a,b\nva\xFFlue,2\n"

	tbl, err := LoadCSV(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if got := tbl.Column(0)[0].Text; got != "va?lue" {
		t.Errorf("a[0] = %q, want va?lue", got)
	}
}
