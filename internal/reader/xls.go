package reader

import (
	"bytes"

	"github.com/extrame/xls"
	"github.com/rotisserie/eris"
)

// xls format caps sheets at 65536 rows
const xlsMaxRows = 65536

// parseXLS reads the first sheet of a legacy XLS workbook.
func parseXLS(data []byte) (*Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-16le")
	if err != nil {
		return nil, eris.Wrapf(ErrUnreadableFile, "open xls workbook: %v", err)
	}
	return tableFromRows(wb.ReadAllCells(xlsMaxRows))
}
