package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"tmf-api/internal/model"
)

// MemoryStore はコレクションをメモリ上に保持する
// レコードは出し入れの際にコピーし、呼び出し元とmapを共有しない
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

// NewMemoryStore は空のインメモリストアを作成
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// Collection は指定されたコレクションを返す（初回は作成）
func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{name: name, records: make(map[string]model.Resource)}
		s.collections[name] = c
	}
	return c
}

// Close は何もしない
func (s *MemoryStore) Close() error {
	return nil
}

type memoryCollection struct {
	name    string
	mu      sync.RWMutex
	order   []string
	records map[string]model.Resource
}

func (c *memoryCollection) Insert(_ context.Context, record model.Resource) error {
	id := record.ID()
	if id == "" {
		return fmt.Errorf("insert into %s: record has no id", c.name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.records[id]; exists {
		return fmt.Errorf("insert into %s: %w: %s", c.name, ErrDuplicate, id)
	}
	c.records[id] = record.Clone()
	c.order = append(c.order, id)
	return nil
}

func (c *memoryCollection) FindByID(_ context.Context, id string) (model.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.records[id]
	if !ok {
		return nil, fmt.Errorf("find %s %s: %w", c.name, id, ErrNotFound)
	}
	return record.Clone(), nil
}

func (c *memoryCollection) FindAll(_ context.Context) ([]model.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Resource, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.records[id].Clone())
	}
	return out, nil
}

func (c *memoryCollection) Update(_ context.Context, id string, record model.Resource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.records[id]; !ok {
		return fmt.Errorf("update %s %s: %w", c.name, id, ErrNotFound)
	}
	c.records[id] = record.Clone()
	return nil
}

func (c *memoryCollection) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.records[id]; !ok {
		return fmt.Errorf("delete %s %s: %w", c.name, id, ErrNotFound)
	}
	delete(c.records, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}
