package dataset

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sahara-sahaya/relief-cli/internal/model"
)

// Stage holds normalized records in memory pending explicit admin
// confirmation and returns a token to confirm or discard them with. Staged
// uploads do not survive a process restart.
func (s *Store) Stage(records []model.Record) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.staged[token] = records
	s.mu.Unlock()
	return token
}

// Confirm replaces the dataset file with a previously staged upload and
// returns the number of rows written. Saving an empty table is allowed: the
// warning happens at staging time, the admin's confirmation is final.
func (s *Store) Confirm(token string) (int, error) {
	s.mu.Lock()
	records, ok := s.staged[token]
	if ok {
		delete(s.staged, token)
	}
	s.mu.Unlock()

	if !ok {
		return 0, eris.Errorf("dataset: unknown staging token %q", token)
	}
	if err := s.Replace(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Discard drops a staged upload. It reports whether the token was known.
func (s *Store) Discard(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staged[token]; !ok {
		return false
	}
	delete(s.staged, token)
	return true
}
