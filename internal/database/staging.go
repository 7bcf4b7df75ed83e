package database

import (
	"sync"

	"go-jobmarket-scraper/internal/models"
)

// staging holds records added since the last successful flush. Records
// leave the buffer only once their transaction has committed, so a failed
// flush can be retried and committed rows are never sent twice.
type staging struct {
	mu      sync.Mutex
	records []models.JobRecord
	links   map[string]struct{}
}

func newStaging() *staging {
	return &staging{links: make(map[string]struct{})}
}

// add buffers a record. A link already buffered is ignored.
func (s *staging) add(record models.JobRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.links[record.JobLink]; exists {
		return
	}
	s.links[record.JobLink] = struct{}{}
	s.records = append(s.records, record)
}

func (s *staging) has(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.links[link]
	return exists
}

// snapshot returns a copy of the buffered records in insertion order.
func (s *staging) snapshot() []models.JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.JobRecord, len(s.records))
	copy(out, s.records)
	return out
}

// commit drops the first n records after they were written durably.
func (s *staging) commit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.records) {
		n = len(s.records)
	}
	for _, r := range s.records[:n] {
		delete(s.links, r.JobLink)
	}
	s.records = append([]models.JobRecord(nil), s.records[n:]...)
}

func (s *staging) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
