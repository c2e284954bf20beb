package reader

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// parseDelimited reads delimited text with encoding detection. Malformed
// lines are skipped rather than failing the whole read: a corrupt row must
// not abort the upload. A row carrying more fields than the header is treated
// as malformed (an unescaped delimiter inside a text field); short rows are
// padded.
func parseDelimited(data []byte, comma rune) (*Table, error) {
	r := csv.NewReader(decodeText(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(ErrUnreadableFile, "no header row")
	}

	t := &Table{Columns: header}
	width := len(header)
	skipped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) > width {
			skipped++
			continue
		}
		for len(row) < width {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}

	if skipped > 0 {
		zap.L().Debug("skipped malformed lines", zap.Int("skipped", skipped), zap.Int("kept", len(t.Rows)))
	}
	return t, nil
}
