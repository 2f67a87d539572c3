package capture

import (
	"sync"
	"time"

	"github.com/noah-isme/solvesync/internal/models"
)

// CodeStore keeps the most recently submitted code per problem id until a
// verdict consumes it.
type CodeStore struct {
	mu      sync.Mutex
	records map[string]models.CodeRecord
}

// NewCodeStore constructs an empty store.
func NewCodeStore() *CodeStore {
	return &CodeStore{records: make(map[string]models.CodeRecord)}
}

// Set overwrites any earlier record for the problem.
func (s *CodeStore) Set(problemID string, record models.CodeRecord) {
	s.mu.Lock()
	s.records[problemID] = record
	s.mu.Unlock()
}

// Take returns the record for the problem and removes it in the same step.
func (s *CodeStore) Take(problemID string) (models.CodeRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[problemID]
	if ok {
		delete(s.records, problemID)
	}
	return record, ok
}

// Peek returns the record for the problem without consuming it.
func (s *CodeStore) Peek(problemID string) (models.CodeRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[problemID]
	return record, ok
}

// Prune drops records captured before the cutoff and returns how many were removed.
func (s *CodeStore) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, record := range s.records {
		if record.CapturedAt.Before(cutoff) {
			delete(s.records, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of records waiting for a verdict.
func (s *CodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
