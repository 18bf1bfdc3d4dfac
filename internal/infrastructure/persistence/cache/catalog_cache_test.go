package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
)

func TestCatalogCache_SearchRoundTrip(t *testing.T) {
	c := NewCatalogCache(memory.NewKVStore(), 30*time.Minute)
	ctx := context.Background()

	_, err := c.GetSearch(ctx, "key-a")
	assert.ErrorIs(t, err, ErrMiss)

	books := []*book.Book{
		{ID: "1", Title: "Война и мир", Price: 1000},
		{ID: "2", Title: "Анна Каренина", Price: 800},
	}
	require.NoError(t, c.SetSearch(ctx, "key-a", books))

	got, err := c.GetSearch(ctx, "key-a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Война и мир", got[0].Title)

	// 其他键不受影响
	_, err = c.GetSearch(ctx, "key-b")
	assert.ErrorIs(t, err, ErrMiss)
}

// TestCatalogCache_TTLExpiry 过期条目视为未命中
func TestCatalogCache_TTLExpiry(t *testing.T) {
	store := memory.NewKVStore()
	now := time.Now()
	store.SetClock(func() time.Time { return now })

	c := NewCatalogCache(store, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetBook(ctx, &book.Book{ID: "1", Title: "Мы"}))

	now = now.Add(29 * time.Minute)
	_, err := c.GetBook(ctx, "1")
	assert.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.GetBook(ctx, "1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCatalogCache_PreviewAndAudio(t *testing.T) {
	c := NewCatalogCache(memory.NewKVStore(), 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetPreview(ctx, &book.Preview{BookID: "1", PreviewText: "Глава первая..."}))
	require.NoError(t, c.SetAudio(ctx, &book.AudioSample{BookID: "1", Duration: 94, UseSpeechSynthesis: true}))

	p, err := c.GetPreview(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Глава первая...", p.PreviewText)

	a, err := c.GetAudio(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 94, a.Duration)
	assert.True(t, a.UseSpeechSynthesis)
}

func TestCatalogCache_Options(t *testing.T) {
	c := NewCatalogCache(memory.NewKVStore(), 30*time.Minute)
	ctx := context.Background()

	_, err := c.GetOptions(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	stored := catalog.DefaultFilterOptions()
	require.NoError(t, c.SetOptions(ctx, &stored))

	opts, err := c.GetOptions(ctx)
	require.NoError(t, err)
	assert.Len(t, opts.Genres, len(stored.Genres))
	assert.Equal(t, stored.PriceRange, opts.PriceRange)
}

// TestCatalogCache_Clear 清空所有目录条目，不影响同存储上的其他键
func TestCatalogCache_Clear(t *testing.T) {
	store := memory.NewKVStore()
	c := NewCatalogCache(store, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, c.SetSearch(ctx, "key-a", []*book.Book{{ID: "1"}}))
	require.NoError(t, c.SetBook(ctx, &book.Book{ID: "1"}))
	require.NoError(t, store.Set(ctx, "cart:sess-1", []byte("{}"), 0))

	deleted, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = c.GetSearch(ctx, "key-a")
	assert.ErrorIs(t, err, ErrMiss)

	_, err = store.Get(ctx, "cart:sess-1")
	assert.NoError(t, err)
}
