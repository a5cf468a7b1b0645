package sink

import (
	"context"
	"sync"

	"github.com/mvfrancisco/extrato/pkg/models"
)

// Memory is an in-process BatchWriter keyed by idempotency key. It backs
// the CLI dry-run path and the tests; the document database lives behind
// the same interface elsewhere.
type Memory struct {
	mu      sync.Mutex
	records map[string]*models.Candidate
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]*models.Candidate)}
}

func (m *Memory) WriteBatch(_ context.Context, batch []*models.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range batch {
		m.records[c.IdempotencyKey] = c
	}
	return nil
}

// Len returns how many distinct records have been written.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Get returns the stored candidate for a key, or nil.
func (m *Memory) Get(key string) *models.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[key]
}
