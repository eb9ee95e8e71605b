// internal/ingest/reader.go
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyFile is returned for uploads with no header row.
var ErrEmptyFile = errors.New("empty file")

// Table is raw tabular input: original header labels plus string cell
// values. It only exists during ingestion.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

func newTable(columns []string, rows [][]string) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}
	return &Table{Columns: columns, Rows: rows, index: index}
}

// Cell returns the value at row/column, "" when the row is short.
func (t *Table) Cell(row int, column string) string {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Sample returns up to n non-empty values from a column.
func (t *Table) Sample(column string, n int) []string {
	out := make([]string, 0, n)
	for row := range t.Rows {
		v := strings.TrimSpace(t.Cell(row, column))
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}

// ReadCSV parses a whole CSV document into a Table. Ragged rows are
// tolerated; short rows read as empty cells.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV record: %w", err)
		}
		rows = append(rows, record)
	}

	return newTable(header, rows), nil
}

// ReadXLSX parses the first sheet of an XLSX document into a Table. The
// first row is treated as the header, matching the CSV path.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	return newTable(rows[0], rows[1:]), nil
}
