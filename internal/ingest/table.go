package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"health-coverage-pipeline/internal/model"
)

// Table is a raw tabular source: cleaned header names plus string cells.
// All sheet and column discovery happens against Tables at the ingestion
// boundary; the pipeline core only ever sees typed records.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the cell at the given column, tolerating short rows
// (excelize trims trailing empty cells).
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// ReadSource reads a tabular source into a Table, dispatching on the
// declared type or the file extension.
func ReadSource(src model.SourceSpec) (*Table, error) {
	typ := strings.ToLower(src.Type)
	if typ == "" {
		typ = strings.TrimPrefix(strings.ToLower(filepath.Ext(src.Path)), ".")
	}

	switch typ {
	case "xlsx", "xls":
		return ReadWorkbook(src.Path, src.Sheet, src.HeaderRow)
	case "csv":
		return ReadCSVFile(src.Path)
	default:
		return nil, fmt.Errorf("unknown source type: %s", typ)
	}
}

// ReadWorkbook reads one sheet of an Excel workbook. headerRow is 1-based;
// zero means the first row. Rows above the header are discarded (the UN WPP
// workbooks carry ~16 rows of titling before the header).
func ReadWorkbook(path, sheet string, headerRow int) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if headerRow <= 0 {
		headerRow = 1
	}
	if len(rows) < headerRow {
		return nil, fmt.Errorf("sheet %q has no header row %d", sheet, headerRow)
	}

	return &Table{
		Headers: cleanHeaders(rows[headerRow-1]),
		Rows:    rows[headerRow:],
	}, nil
}

// ReadCSVFile reads a CSV file with a header row.
func ReadCSVFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV reads CSV data with a header row from a reader.
func ReadCSV(r io.Reader) (*Table, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := &Table{Headers: cleanHeaders(headers)}
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		t.Rows = append(t.Rows, record)
	}
}

// cleanHeaders trims whitespace and strips stray quotes from header names.
func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		h = strings.ReplaceAll(h, `"`, "")
		headers[i] = h
	}
	return headers
}
