package tokenstore

import "sync"

// A MemoryStorage keeps items in a map.
//
// Restarting the process empties a MemoryStorage.
type MemoryStorage struct {
	items map[string]string
	sync.Mutex
}

var _ Storage = &MemoryStorage{}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.Lock()
	defer m.Unlock()

	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.Lock()
	defer m.Unlock()

	delete(m.items, key)
	return nil
}

// GetItem retrieves the value under key and whether it is set.
func (m *MemoryStorage) GetItem(key string) (string, bool) {
	m.Lock()
	defer m.Unlock()

	val, ok := m.items[key]
	return val, ok
}
