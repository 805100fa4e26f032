package enrich

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a rectangular spreadsheet slice: one header row plus data
// rows, everything held as strings so values like leading-zero postal
// codes survive a roundtrip.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of a named column, matched
// case-insensitively, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at (row, col), tolerating ragged rows.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ReadTable loads a .csv or .xlsx file. Cells are whitespace-normalized;
// rows shorter than the header are padded. For XLSX, sheet selects the
// worksheet (empty means the first one).
func ReadTable(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format %q: want .csv or .xlsx", filepath.Ext(path))
	}
}

// WriteTable persists a table to .csv or .xlsx, chosen by the output
// path's extension.
func WriteTable(t *Table, path, sheet string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(t, path)
	case ".xlsx":
		return writeXLSX(t, path, sheet)
	default:
		return fmt.Errorf("unsupported spreadsheet format %q: want .csv or .xlsx", filepath.Ext(path))
	}
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return fromRecords(records)
}

func writeCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(t.Header); err != nil {
		f.Close()
		return err
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, path, err)
	}
	return fromRecords(records)
}

func writeXLSX(t *Table, path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	all := make([][]string, 0, len(t.Rows)+1)
	all = append(all, t.Header)
	all = append(all, t.Rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// fromRecords normalizes raw sheet records: trims every cell and pads
// short rows out to the header width.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("spreadsheet is empty")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(header))
		for i := range header {
			if i < len(record) {
				row[i] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return &Table{Header: header, Rows: rows}, nil
}
