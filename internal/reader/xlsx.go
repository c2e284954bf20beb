package reader

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// parseXLSX reads the first sheet of an XLSX workbook, every cell as a string.
func parseXLSX(data []byte) (*Table, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrapf(ErrUnreadableFile, "open xlsx workbook: %v", err)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Wrap(ErrUnreadableFile, "xlsx workbook has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return tableFromRows(rows)
}
