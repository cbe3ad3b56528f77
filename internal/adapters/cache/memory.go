package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ncastellan/enhancer/internal/domain"
)

// defaultCapacity bounds the in-process cache when the caller passes no
// explicit size. A full catalog sweep plans well under this many items.
const defaultCapacity = 100

// planKey identifies one cached breakdown.
type planKey struct {
	itemID string
	level  int
}

// Memory is a bounded in-process ports.PlanCache backed by an LRU. It is
// safe for concurrent use by the sweep workers.
type Memory struct {
	entries *lru.Cache[planKey, domain.Breakdown]
}

// NewMemory creates a plan cache holding at most capacity breakdowns.
// Non-positive capacities fall back to the default.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	entries, _ := lru.New[planKey, domain.Breakdown](capacity) // only fails on size <= 0
	return &Memory{entries: entries}
}

// Get returns the cached breakdown for the key, if present.
func (m *Memory) Get(_ context.Context, itemID string, targetLevel int) (domain.Breakdown, bool, error) {
	b, ok := m.entries.Get(planKey{itemID: itemID, level: targetLevel})
	return b, ok, nil
}

// Set stores a breakdown, evicting the least recently used entry when
// the cache is full.
func (m *Memory) Set(_ context.Context, itemID string, targetLevel int, b domain.Breakdown) error {
	m.entries.Add(planKey{itemID: itemID, level: targetLevel}, b)
	return nil
}

// Flush drops every cached entry.
func (m *Memory) Flush(_ context.Context) error {
	m.entries.Purge()
	return nil
}

// Len returns how many breakdowns are currently cached.
func (m *Memory) Len() int {
	return m.entries.Len()
}
