package processor

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"meadowmarket/internal/app/storefront/cache"
	"meadowmarket/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitWithWriter("storefront-service", "error", io.Discard)
	os.Exit(m.Run())
}

// ==================== Event Mapping Tests ====================

func TestPrefixesFor_ProductCreated(t *testing.T) {
	prefixes := prefixesFor(CatalogEvent{EventType: "PRODUCT_CREATED", ProductID: 7})

	assert.Equal(t, []string{cache.FamilyProducts}, prefixes)
}

func TestPrefixesFor_ProductUpdatedCoversDetailKey(t *testing.T) {
	prefixes := prefixesFor(CatalogEvent{EventType: "PRODUCT_UPDATED", ProductID: 7})

	assert.Equal(t, []string{cache.FamilyProducts, cache.ProductKey(7)}, prefixes)
}

func TestPrefixesFor_ProductDeleted(t *testing.T) {
	prefixes := prefixesFor(CatalogEvent{EventType: "PRODUCT_DELETED", ProductID: 9})

	assert.Contains(t, prefixes, cache.ProductKey(9))
}

func TestPrefixesFor_CategoryCreated(t *testing.T) {
	prefixes := prefixesFor(CatalogEvent{EventType: "CATEGORY_CREATED", CategoryID: 2})

	assert.Equal(t, []string{cache.FamilyCategories}, prefixes)
}

func TestPrefixesFor_UnknownEventIsSkipped(t *testing.T) {
	prefixes := prefixesFor(CatalogEvent{EventType: "SOMETHING_ELSE"})

	assert.Nil(t, prefixes)
}

// ==================== CacheSweeper Tests ====================

func TestCacheSweeper_InvalidScheduleFails(t *testing.T) {
	sweeper := NewCacheSweeper(cache.NewMemoryStore())

	err := sweeper.Start("not a schedule")

	assert.Error(t, err)
}

func TestCacheSweeper_RemovesExpiredEntries(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "stale", []byte("1"), time.Millisecond))
	require.NoError(t, store.Set(ctx, "fresh", []byte("2"), time.Hour))
	time.Sleep(5 * time.Millisecond)

	sweeper := NewCacheSweeper(store)
	require.NoError(t, sweeper.Start("@every 1s"))
	defer sweeper.Stop()

	// Ждём первый тик расписания
	assert.Eventually(t, func() bool {
		return store.Len() == 1
	}, 3*time.Second, 50*time.Millisecond)
}
