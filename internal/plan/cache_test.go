package plan

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ParseMatchesParse(t *testing.T) {
	c, err := NewCache(1 << 20)
	require.NoError(t, err)
	defer c.Close()

	input := "intro " + block(samplePlan)
	want := Parse(input)

	assert.Equal(t, want, c.Parse(input))
	c.Wait()
	assert.Equal(t, want, c.Parse(input))
}

func TestCache_ReturnsIndependentSlices(t *testing.T) {
	c, err := NewCache(1 << 20)
	require.NoError(t, err)
	defer c.Close()

	input := "a " + block(`{"workstreams":[]}`) + " b"
	first := c.Parse(input)
	c.Wait()
	first[0].Text = "changed"

	second := c.Parse(input)
	assert.Equal(t, "a", second[0].Text)
}

func TestCache_ReturnsIndependentPlans(t *testing.T) {
	c, err := NewCache(1 << 20)
	require.NoError(t, err)
	defer c.Close()

	input := block(samplePlan)
	first := c.Parse(input)
	c.Wait()
	require.Equal(t, KindProjectPlan, first[0].Kind)
	first[0].Plan.Workstreams[0].Title = "changed"
	first[0].Plan.Workstreams[0].Deliverables[0].Title = "changed"
	first[0].Plan.Workstreams = first[0].Plan.Workstreams[:1]

	second := c.Parse(input)
	require.Len(t, second[0].Plan.Workstreams, 3)
	assert.Equal(t, "Foundation & Planning", second[0].Plan.Workstreams[0].Title)
	assert.Equal(t, "Project Charter", second[0].Plan.Workstreams[0].Deliverables[0].Title)
	assert.Equal(t, Parse(input), second)
}

func TestCache_Concurrent(t *testing.T) {
	c, err := NewCache(1 << 20)
	require.NoError(t, err)
	defer c.Close()

	input := block(samplePlan)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			parts := c.Parse(input)
			assert.Len(t, parts, 1)
			assert.Equal(t, KindProjectPlan, parts[0].Kind)
		}()
	}
	wg.Wait()
}

func TestCacheKey_Distinct(t *testing.T) {
	assert.NotEqual(t, cacheKey("a"), cacheKey("b"))
	assert.Equal(t, cacheKey("same"), cacheKey("same"))
	assert.Len(t, cacheKey(""), 32)
}
