// Package reader decodes uploaded spreadsheet files of unknown encoding and
// format into a loosely-typed row table. All cell values are kept as raw
// strings; no type inference happens at this stage.
package reader

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnreadableFile is returned when a file cannot be decoded at all:
// unsupported extension, corrupt workbook, or no rows. Per-row problems are
// absorbed and never surface through this error.
var ErrUnreadableFile = eris.New("unreadable file")

// Table is the raw row table produced by reading an upload. Column names are
// arbitrary and kept verbatim; Rows hold one value per column.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTable decodes raw file bytes into a Table, dispatching on the filename
// extension. CSV/TSV/TXT go through encoding detection; XLSX and XLS are
// parsed schema-agnostically with every cell read as a string.
func ReadTable(data []byte, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return parseDelimited(data, ',')
	case ".tsv":
		return parseDelimited(data, '\t')
	case ".xlsx":
		return parseXLSX(data)
	case ".xls":
		return parseXLS(data)
	default:
		return nil, eris.Wrapf(ErrUnreadableFile, "unsupported extension %q", filepath.Ext(filename))
	}
}

// tableFromRows builds a Table treating the first row as the header. Rows
// shorter than the header are padded with empty strings; extra trailing cells
// are dropped.
func tableFromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, eris.Wrap(ErrUnreadableFile, "no header row")
	}

	t := &Table{Columns: rows[0]}
	width := len(t.Columns)
	for _, row := range rows[1:] {
		if len(row) > width {
			row = row[:width]
		}
		for len(row) < width {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
