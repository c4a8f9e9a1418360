package capability

import (
	"context"
	"encoding/json"
	"sync"

	lab "github.com/BrenchCC/LLM-Lab"
)

// Store persists resolved capabilities by cache key.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the record for key. A missing record is not an error.
	Get(ctx context.Context, key string) (lab.ModelCapabilities, bool, error)

	// Set stores the record for key, keeping every other record.
	Set(ctx context.Context, key string, caps lab.ModelCapabilities) error

	// Load returns every record.
	Load(ctx context.Context) (map[string]lab.ModelCapabilities, error)
}

// decodeRecord reads one cached record leniently: values that are not
// booleans are unknown rather than errors.
func decodeRecord(raw json.RawMessage) (lab.ModelCapabilities, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return lab.ModelCapabilities{}, err
	}
	return lab.CapabilitiesFromMap(m), nil
}

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]lab.ModelCapabilities
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]lab.ModelCapabilities)}
}

// Get retrieves a record by key.
func (m *MemoryStore) Get(_ context.Context, key string) (lab.ModelCapabilities, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	caps, ok := m.data[key]
	return caps, ok, nil
}

// Set stores a record by key.
func (m *MemoryStore) Set(_ context.Context, key string, caps lab.ModelCapabilities) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = caps
	return nil
}

// Load returns a copy of every record.
func (m *MemoryStore) Load(_ context.Context) (map[string]lab.ModelCapabilities, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]lab.ModelCapabilities, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result, nil
}
