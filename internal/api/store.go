package api

import (
	"sync"

	"github.com/samcharles93/mobisniff/internal/batch"
)

// BatchStore keeps finished batches in memory for later retrieval.
type BatchStore struct {
	mu      sync.Mutex
	batches map[string]*batch.Batch
}

func NewBatchStore() *BatchStore {
	return &BatchStore{
		batches: make(map[string]*batch.Batch),
	}
}

func (s *BatchStore) Put(b *batch.Batch) {
	s.mu.Lock()
	s.batches[b.ID] = b
	s.mu.Unlock()
}

func (s *BatchStore) Get(id string) (*batch.Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[id]
	return b, ok
}

func (s *BatchStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[id]; !ok {
		return false
	}
	delete(s.batches, id)
	return true
}
