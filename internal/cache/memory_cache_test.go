package cache

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pos_core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProductCache(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c := NewMemoryProductCache()
	c.now = func() time.Time { return current }

	_, ok, err := c.Get(ctx, "7501000000001")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, &domain.Product{ProductID: "p1", Barcode: "7501000000001", Name: "Cola"}, time.Minute))
	got, ok, err := c.Get(ctx, "7501000000001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Cola", got.Name)

	got.Name = "changed"
	again, _, _ := c.Get(ctx, "7501000000001")
	assert.Equal(t, "Cola", again.Name)

	current = current.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, "7501000000001")
	assert.False(t, ok, "entries expire after their ttl")

	current = current.Add(-2 * time.Minute)
	require.NoError(t, c.Invalidate(ctx, "7501000000001"))
	_, ok, _ = c.Get(ctx, "7501000000001")
	assert.False(t, ok)
}
