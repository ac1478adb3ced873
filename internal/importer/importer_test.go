package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("alpha,a,d,theta\n0,0,0,t1\n90,1,0,t2\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("alpha;a;d;theta\n0;0;0;t1\n90;1;0;t2\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("alpha\ta\td\ttheta\n0\t0\t0\tt1\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("alpha|a|d|theta\n0|0|0|t1\n")
	if got := DetectCSVDelimiter(data); got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_Header(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Link", "Alpha", "A", "D", "Theta"})
	if !isHeader {
		t.Fatal("header not detected")
	}
	if mapping.Link != 0 || mapping.Alpha != 1 || mapping.A != 2 || mapping.D != 3 || mapping.Theta != 4 {
		t.Errorf("mapping = %+v", mapping)
	}
}

func TestDetectColumns_Aliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"joint", "twist", "link length", "offset", "joint angle"})
	if !isHeader {
		t.Fatal("aliases not detected")
	}
	if mapping.Alpha != 1 || mapping.A != 2 || mapping.D != 3 || mapping.Theta != 4 {
		t.Errorf("mapping = %+v", mapping)
	}
}

func TestDetectColumns_PositionalFourColumns(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"0", "0", "0", "t1"})
	if isHeader {
		t.Fatal("numeric row mistaken for header")
	}
	if mapping.Link != -1 || mapping.Alpha != 0 || mapping.Theta != 3 {
		t.Errorf("mapping = %+v", mapping)
	}
}

func TestDetectColumns_PositionalFiveColumns(t *testing.T) {
	mapping, _ := DetectColumns([]string{"1", "0", "0", "0", "t1"})
	if mapping.Link != 0 || mapping.Alpha != 1 || mapping.Theta != 4 {
		t.Errorf("mapping = %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSV_WithHeader(t *testing.T) {
	data := "link,alpha,a,d,theta\n1,0,L1,0,t1\n2,90,L2,d2,t2\n"
	result := ImportCSVData([]byte(data))
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("got %d rows", len(result.Rows))
	}
	if result.Rows[0].Params.Theta != "t1" {
		t.Errorf("row 0 theta = %q", result.Rows[0].Params.Theta)
	}
	if result.Rows[1].Params.D != "d2" {
		t.Errorf("row 1 d = %q", result.Rows[1].Params.D)
	}
	if result.Rows[1].Link != "2" {
		t.Errorf("row 1 link = %q", result.Rows[1].Link)
	}
}

func TestImportCSV_WithoutHeader(t *testing.T) {
	data := "0,0,0,t1\n90,1,0,t2\n"
	result := ImportCSVData([]byte(data))
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("got %d rows", len(result.Rows))
	}
	// Link labels are generated when the table has none.
	if result.Rows[0].Link != "1" || result.Rows[1].Link != "2" {
		t.Errorf("links = %q, %q", result.Rows[0].Link, result.Rows[1].Link)
	}
}

func TestImportCSV_SemicolonWarning(t *testing.T) {
	data := "alpha;a;d;theta\n0;0;0;t1\n"
	result := ImportCSVData([]byte(data))
	if len(result.Rows) != 1 {
		t.Fatalf("rows: %d, errors: %v", len(result.Rows), result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing delimiter warning: %v", result.Warnings)
	}
}

func TestImportCSV_BadExpressionReported(t *testing.T) {
	data := "alpha,a,d,theta\n0,(,0,t1\n90,1,0,t2\n"
	result := ImportCSVData([]byte(data))
	if len(result.Rows) != 1 {
		t.Fatalf("good row should survive, got %d rows", len(result.Rows))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 2") {
		t.Errorf("error should name the line: %s", result.Errors[0])
	}
	if !strings.Contains(result.Errors[0], "Invalid a") {
		t.Errorf("error should name the field: %s", result.Errors[0])
	}
}

func TestImportCSV_MissingValue(t *testing.T) {
	data := "alpha,a,d,theta\n0,,0,t1\n"
	result := ImportCSVData([]byte(data))
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Missing a") {
		t.Errorf("errors: %v", result.Errors)
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	result := ImportCSVData([]byte("  \n"))
	if len(result.Errors) == 0 {
		t.Error("empty file should be an error")
	}
}

func TestImportCSV_SkipsEmptyRows(t *testing.T) {
	data := "alpha,a,d,theta\n0,0,0,t1\n,,,\n90,0,0,t2\n"
	result := ImportCSVData([]byte(data))
	if len(result.Rows) != 2 {
		t.Errorf("got %d rows, errors %v", len(result.Rows), result.Errors)
	}
}

func TestImportCSV_MissingRequiredColumn(t *testing.T) {
	data := "alpha,a,d\n0,0,0\n"
	result := ImportCSVData([]byte(data))
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "theta") {
		t.Errorf("errors: %v", result.Errors)
	}
}

func TestImportCSV_FromReader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("0,0,0,t1\n"), ',')
	if len(result.Rows) != 1 {
		t.Fatalf("rows: %d, errors: %v", len(result.Rows), result.Errors)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/table.csv")
	if len(result.Errors) == 0 {
		t.Error("missing file should be an error")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func TestImportExcel_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dh.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]interface{}{
		{"link", "alpha", "a", "d", "theta"},
		{"1", "0", "L1", "0", "t1"},
		{"2", "90", "L2", "0", "t2"},
	}
	for i, row := range cells {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	result := ImportExcel(path)
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("got %d rows", len(result.Rows))
	}
	if result.Rows[1].Params.Alpha != "90" {
		t.Errorf("row 1 alpha = %q", result.Rows[1].Params.Alpha)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/table.xlsx")
	if len(result.Errors) == 0 {
		t.Error("missing file should be an error")
	}
}

// ─── Export Tests ──────────────────────────────────────────

func TestExportCSV_RoundTrip(t *testing.T) {
	original := "link,alpha,a,d,theta\n1,0,L1,0,t1\n2,90,L2,0,t2+90\n"
	first := ImportCSVData([]byte(original))
	if len(first.Errors) != 0 {
		t.Fatalf("errors: %v", first.Errors)
	}
	second := ImportCSVData(ExportCSV(first.Rows))
	if len(second.Errors) != 0 {
		t.Fatalf("round-trip errors: %v", second.Errors)
	}
	if len(second.Rows) != len(first.Rows) {
		t.Fatalf("row count changed: %d -> %d", len(first.Rows), len(second.Rows))
	}
	for i := range first.Rows {
		if first.Rows[i] != second.Rows[i] {
			t.Errorf("row %d changed: %+v -> %+v", i, first.Rows[i], second.Rows[i])
		}
	}
}
