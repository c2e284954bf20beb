// Package dataset persists the canonical relief-centre table as a flat CSV
// file with a fixed 8-column header. The file is the sole contract with the
// map-rendering and geocoding collaborators.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sahara-sahaya/relief-cli/internal/model"
)

// Store reads and replaces the persisted dataset file. Replacement is atomic
// (temp file + rename); the single-writer assumption is the caller's to keep.
type Store struct {
	path string

	mu     sync.Mutex
	staged map[string][]model.Record
}

// NewStore creates a Store over the given dataset path.
func NewStore(path string) *Store {
	return &Store{path: path, staged: make(map[string][]model.Record)}
}

// Path returns the dataset file location.
func (s *Store) Path() string { return s.path }

// Load reads the full dataset. The header row must match the canonical column
// order exactly.
func (s *Store) Load() ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", s.path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read header")
	}
	if !headerMatches(header) {
		return nil, eris.Errorf("dataset: unexpected header %v", header)
	}

	var records []model.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read row")
		}
		records = append(records, model.Record{
			Name:               row[0],
			Type:               row[1],
			Latitude:           row[2],
			Longitude:          row[3],
			Inventory:          row[4],
			LastUpdated:        row[5],
			Contact:            row[6],
			SupportedDisasters: row[7],
		})
	}
	return records, nil
}

// Replace atomically overwrites the dataset file with the given records.
func (s *Store) Replace(records []model.Record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".relief_centers-*.csv")
	if err != nil {
		return eris.Wrap(err, "dataset: create temp file")
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(model.Header()); err != nil {
		tmp.Close()
		return eris.Wrap(err, "dataset: write header")
	}
	for _, rec := range records {
		if err := w.Write(rec.Fields()); err != nil {
			tmp.Close()
			return eris.Wrap(err, "dataset: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return eris.Wrap(err, "dataset: flush")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "dataset: close temp file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return eris.Wrapf(err, "dataset: rename to %s", s.path)
	}

	zap.L().Info("dataset replaced", zap.String("path", s.path), zap.Int("rows", len(records)))
	return nil
}

func headerMatches(header []string) bool {
	want := model.Header()
	if len(header) != len(want) {
		return false
	}
	for i, col := range header {
		if col != want[i] {
			return false
		}
	}
	return true
}
