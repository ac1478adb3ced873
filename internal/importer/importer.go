// Package importer reads Denavit-Hartenberg parameter tables from CSV
// and Excel files. It supports automatic delimiter detection, flexible
// column mapping and case-insensitive header recognition; cell values
// are kept as raw expression strings and validated with the expression
// parser.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/dh-calculator/internal/kinematics"
	"github.com/piwi3910/dh-calculator/internal/symbolic"
)

// Row is one imported DH table row: an optional link label plus the
// four parameter fields as the file spelled them.
type Row struct {
	Link   string
	Params kinematics.JointParams
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Rows     []Row
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Link  int
	Alpha int
	A     int
	D     int
	Theta int
}

// headerAliases maps canonical column names to their accepted aliases
// (all lowercase).
var headerAliases = map[string][]string{
	"link":  {"link", "joint", "frame", "row", "no", "#", "i"},
	"alpha": {"alpha", "α", "alpha(i-1)", "twist", "twist angle"},
	"a":     {"a", "a(i-1)", "r", "link length"},
	"d":     {"d", "offset", "link offset"},
	"theta": {"theta", "θ", "theta(i)", "joint angle", "angle"},
}

// DetectCSVDelimiter reads the file content and determines the most
// likely CSV delimiter. It tries comma, semicolon, tab, and pipe; the
// delimiter that produces the most consistent multi-column split wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}
	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. It
// matches case-insensitively against the known aliases. When no alias
// matches it falls back to positional mapping: alpha, a, d, theta for
// four columns, with a leading link column when there are five.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Link: -1, Alpha: -1, A: -1, D: -1, Theta: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "link":
					if mapping.Link == -1 {
						mapping.Link = i
					}
				case "alpha":
					if mapping.Alpha == -1 {
						mapping.Alpha = i
					}
				case "a":
					if mapping.A == -1 {
						mapping.A = i
					}
				case "d":
					if mapping.D == -1 {
						mapping.D = i
					}
				case "theta":
					if mapping.Theta == -1 {
						mapping.Theta = i
					}
				}
			}
		}
	}

	if !isHeader {
		if len(row) >= 5 {
			return ColumnMapping{Link: 0, Alpha: 1, A: 2, D: 3, Theta: 4}, false
		}
		return ColumnMapping{Link: -1, Alpha: 0, A: 1, D: 2, Theta: 3}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a DH row using the given column mapping. Every
// parameter must parse as an expression; the shared environment keeps
// one symbol per name across the whole table.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, rowCount int, env *symbolic.Env) (Row, string) {
	link := getCell(row, mapping.Link)
	if link == "" {
		link = fmt.Sprintf("%d", rowCount+1)
	}

	params := kinematics.JointParams{
		Alpha: getCell(row, mapping.Alpha),
		A:     getCell(row, mapping.A),
		D:     getCell(row, mapping.D),
		Theta: getCell(row, mapping.Theta),
	}
	fields := []struct {
		name  string
		value string
	}{
		{"alpha", params.Alpha},
		{"a", params.A},
		{"d", params.D},
		{"theta", params.Theta},
	}
	for _, f := range fields {
		if f.value == "" {
			return Row{}, fmt.Sprintf("%s: Missing %s value", rowLabel, f.name)
		}
		if _, err := symbolic.Parse(f.value, env); err != nil {
			return Row{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.name, f.value)
		}
	}
	return Row{Link: link, Params: params}, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports a DH table from a CSV file. It automatically
// detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	return ImportCSVData(data)
}

// ImportCSVData imports a DH table from raw CSV bytes.
func ImportCSVData(data []byte) ImportResult {
	result := ImportResult{}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports a DH table from a CSV reader with a known
// delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}
	return importFromRows(records, "Line", nil)
}

// ImportExcel imports a DH table from an Excel (.xlsx) file. Reads the
// first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}
	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel
// data. It detects headers, maps columns, and validates each row.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Alpha == -1 {
			missing = append(missing, "alpha")
		}
		if mapping.A == -1 {
			missing = append(missing, "a")
		}
		if mapping.D == -1 {
			missing = append(missing, "d")
		}
		if mapping.Theta == -1 {
			missing = append(missing, "theta")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	}

	env := symbolic.NewEnv()
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		parsed, errMsg := parseRow(row, mapping, rowLabel, len(result.Rows), env)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Rows = append(result.Rows, parsed)
	}

	if len(result.Rows) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

// ExportCSV renders DH rows back to canonical comma-separated form
// with a header line. The output round-trips through ImportCSVData,
// which is what the PDF worksheet QR block embeds.
func ExportCSV(rows []Row) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"link", "alpha", "a", "d", "theta"})
	for _, r := range rows {
		_ = w.Write([]string{r.Link, r.Params.Alpha, r.Params.A, r.Params.D, r.Params.Theta})
	}
	w.Flush()
	return buf.Bytes()
}
