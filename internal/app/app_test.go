package app

import (
	"context"
	"testing"
	"time"

	"github.com/ivanoskov/warehouse/internal/config"
	"github.com/ivanoskov/warehouse/internal/repository"
	"github.com/ivanoskov/warehouse/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(ttl time.Duration) *config.Config {
	cfg := config.Default()
	cfg.Store = config.StoreMemory
	cfg.SeedCategories = []string{"Hardware", "Tools"}
	cfg.CacheTTL = ttl
	return cfg
}

func TestNewMemoryStoreWithCache(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(30*time.Second), nil)
	require.NoError(t, err)
	defer a.Close()

	_, cached := a.Repository.(*repository.CachedRepository)
	assert.True(t, cached)

	snapshot, err := a.Catalog.InsertProduct(context.Background(), service.ProductInput{
		Name: "Bolt", Quantity: 100, Price: 0.5, Category: "Hardware",
	})
	require.NoError(t, err)
	require.Len(t, snapshot.Records, 1)
	assert.Equal(t, 50.0, snapshot.Records[0].Value)
	assert.Len(t, snapshot.Categories, 2)
}

func TestNewWithoutCache(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(0), nil)
	require.NoError(t, err)
	defer a.Close()

	_, isMemory := a.Repository.(*repository.MemoryRepository)
	assert.True(t, isMemory)
}

func TestNewMissingCategoryLabel(t *testing.T) {
	cfg := memoryConfig(0)
	cfg.MissingCategoryLabel = "Brak"

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "Brak", a.Catalog.MissingCategoryLabel())
}

func TestNewUnknownStore(t *testing.T) {
	cfg := memoryConfig(0)
	cfg.Store = "sqlite"

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewStateStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		a, err := New(context.Background(), memoryConfig(0), nil)
		require.NoError(t, err)
		defer a.Close()

		_, ok := a.States.(*repository.MemoryStateStore)
		assert.True(t, ok)
	})

	t.Run("redis", func(t *testing.T) {
		cfg := memoryConfig(0)
		cfg.RedisAddr = "localhost:6379"

		a, err := New(context.Background(), cfg, nil)
		require.NoError(t, err)
		defer a.Close()

		_, ok := a.States.(*repository.RedisStateStore)
		assert.True(t, ok)
	})
}
