package reader

import (
	"bytes"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// detectSampleSize bounds how many bytes the statistical detector sees.
const detectSampleSize = 50_000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// detectEncoding guesses the text encoding of the sample. When the detector
// comes back empty, "ascii", or "unknown" (or cannot resolve a name at all)
// it falls back to Latin-1, a single-byte superset that never fails to
// decode. The read stage therefore cannot fail purely on encoding.
func detectEncoding(data []byte) encoding.Encoding {
	sample := data
	if len(sample) > detectSampleSize {
		sample = sample[:detectSampleSize]
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return charmap.ISO8859_1
	}

	name := strings.ToLower(result.Charset)
	if name == "" || name == "ascii" || name == "unknown" {
		return charmap.ISO8859_1
	}

	enc, err := htmlindex.Get(name)
	if err != nil || enc == nil {
		return charmap.ISO8859_1
	}
	return enc
}

// decodeText returns a UTF-8 reader over the raw bytes using the detected
// encoding. A UTF-8 BOM is stripped so it cannot leak into the first header
// cell.
func decodeText(data []byte) io.Reader {
	data = bytes.TrimPrefix(data, utf8BOM)
	return transform.NewReader(bytes.NewReader(data), detectEncoding(data).NewDecoder())
}
