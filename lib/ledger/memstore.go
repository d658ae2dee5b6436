package ledger

import (
	"bytes"
	"sort"
	"sync"
)

// MemStore is an in-memory, concurrency safe Store and Scanner.
type MemStore struct {
	mu    sync.RWMutex
	cells map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{cells: map[string][]byte{}}
}

func (m *MemStore) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.cells[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *MemStore) Set(key, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells[string(key)] = bytes.Clone(value)
}

// Apply writes all models at once.
func (m *MemStore) Apply(models []Model) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, model := range models {
		m.cells[string(model.Key)] = bytes.Clone(model.Value)
	}
}

func (m *MemStore) Scan(start []byte, limit int) (Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.cells))
	for k := range m.cells {
		if k >= string(start) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	page := Page{Models: []Model{}}
	for i, k := range keys {
		if limit > 0 && i == limit {
			page.NextKey = []byte(k)
			break
		}
		page.Models = append(page.Models, Model{Key: []byte(k), Value: bytes.Clone(m.cells[k])})
	}
	return page, nil
}
