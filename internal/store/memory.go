package store

import "context"

// MemoryAdapter keeps documents in a map. It backs tests and ephemeral runs.
type MemoryAdapter struct {
	docs map[string][]byte
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{docs: make(map[string][]byte)}
}

func (m *MemoryAdapter) Load(_ context.Context, key string) ([]byte, error) {
	value, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryAdapter) Save(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.docs[key] = stored
	return nil
}
