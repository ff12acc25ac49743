package plan

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes Parse results keyed by a digest of the input text.
// Message content is immutable once stored, so entries never go stale.
type Cache struct {
	store *ristretto.Cache[string, []MessagePart]
	group singleflight.Group
}

// NewCache creates a parse cache bounded by maxCost bytes of input text.
func NewCache(maxCost int64) (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, []MessagePart]{
		NumCounters: max(maxCost/100, 1000),
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	return &Cache{store: store}, nil
}

// Parse returns the parts of text, reusing a cached result when available.
// Concurrent calls for the same text share one parse.
func (c *Cache) Parse(text string) []MessagePart {
	key := cacheKey(text)
	if parts, ok := c.store.Get(key); ok {
		return clone(parts)
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		parts := Parse(text)
		c.store.Set(key, parts, int64(len(text))+1)
		return parts, nil
	})
	return clone(v.([]MessagePart))
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	c.store.Wait()
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.store.Close()
}

func cacheKey(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return string(sum[:])
}

// clone deep-copies parts so callers cannot modify cached entries.
func clone(parts []MessagePart) []MessagePart {
	out := make([]MessagePart, len(parts))
	for i, p := range parts {
		out[i] = p
		if p.Plan != nil {
			out[i].Plan = clonePlan(p.Plan)
		}
	}
	return out
}

func clonePlan(p *ProjectPlan) *ProjectPlan {
	workstreams := make([]Workstream, len(p.Workstreams))
	for i, ws := range p.Workstreams {
		workstreams[i] = ws
		workstreams[i].Deliverables = append([]Deliverable{}, ws.Deliverables...)
	}
	return &ProjectPlan{Workstreams: workstreams}
}
