package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastellan/enhancer/internal/adapters/cache"
	"github.com/ncastellan/enhancer/internal/domain"
)

func plan(itemID string, target int, cost float64) domain.Breakdown {
	return domain.Breakdown{
		ItemID:      itemID,
		TargetLevel: target,
		Optimal:     domain.Strategy{Label: "no protection", TotalCost: cost},
	}
}

func TestMemory_GetSetRoundTrip(t *testing.T) {
	c := cache.NewMemory(10)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "iron_sword", 10)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "iron_sword", 10, plan("iron_sword", 10, 1950)))

	got, ok, err := c.Get(ctx, "iron_sword", 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1950.0, got.Optimal.TotalCost, 0.001)
}

func TestMemory_KeyIncludesTargetLevel(t *testing.T) {
	c := cache.NewMemory(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "iron_sword", 5, plan("iron_sword", 5, 700)))
	require.NoError(t, c.Set(ctx, "iron_sword", 10, plan("iron_sword", 10, 1950)))

	got5, ok, err := c.Get(ctx, "iron_sword", 5)
	require.NoError(t, err)
	require.True(t, ok)
	got10, ok, err := c.Get(ctx, "iron_sword", 10)
	require.NoError(t, err)
	require.True(t, ok)

	assert.InDelta(t, 700.0, got5.Optimal.TotalCost, 0.001)
	assert.InDelta(t, 1950.0, got10.Optimal.TotalCost, 0.001)
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	c := cache.NewMemory(2)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 10, plan("a", 10, 1)))
	require.NoError(t, c.Set(ctx, "b", 10, plan("b", 10, 2)))

	// Touch "a" so "b" becomes the eviction candidate
	_, ok, err := c.Get(ctx, "a", 10)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "c", 10, plan("c", 10, 3)))
	assert.Equal(t, 2, c.Len())

	_, ok, err = c.Get(ctx, "b", 10)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, "a", 10)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_FlushDropsEverything(t *testing.T) {
	c := cache.NewMemory(10)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 10, plan("a", 10, 1)))
	require.NoError(t, c.Set(ctx, "b", 10, plan("b", 10, 2)))
	require.NoError(t, c.Flush(ctx))

	assert.Equal(t, 0, c.Len())
	_, ok, err := c.Get(ctx, "a", 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_DefaultCapacity(t *testing.T) {
	c := cache.NewMemory(0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 10, plan("a", 10, 1)))
	_, ok, err := c.Get(ctx, "a", 10)
	require.NoError(t, err)
	assert.True(t, ok)
}
