package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	domaincart "github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
)

// staticResolver 固定图书表的解析器
type staticResolver map[string]*book.Book

func (r staticResolver) FetchBookByID(_ context.Context, id string) (*book.Book, error) {
	if b, ok := r[id]; ok {
		return b, nil
	}
	return nil, book.ErrNotFound
}

func newTestService() *Service {
	resolver := staticResolver{
		"1": {ID: "1", Title: "Война и мир", Price: 1000, DiscountPercentage: 20},
		"2": {ID: "2", Title: "Мы", Price: 600},
	}
	return NewService(memory.NewKVStore(), resolver, 7*24*time.Hour, zap.NewNop())
}

func TestGet_EmptyByDefault(t *testing.T) {
	s := newTestService()

	c, err := s.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestAddItem_PersistsAcrossReads(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	c, err := s.AddItem(ctx, "sess-1", "1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalQuantity)
	assert.Equal(t, int64(2000), c.Subtotal)
	assert.Equal(t, int64(400), c.Discount)
	assert.Equal(t, int64(1600), c.Total)

	// 重新读取得到同样的状态
	loaded, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Война и мир", loaded.Items[0].Book.Title)
	assert.Equal(t, int64(1600), loaded.Total)
}

func TestAddItem_UnknownBook(t *testing.T) {
	s := newTestService()

	_, err := s.AddItem(context.Background(), "sess-1", "404", 1)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "sess-1", "2", 1)
	require.NoError(t, err)

	c, err := s.UpdateQuantity(ctx, "sess-1", "2", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), c.Total)

	_, err = s.UpdateQuantity(ctx, "sess-1", "404", 1)
	assert.ErrorIs(t, err, domaincart.ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "sess-1", "1", 1)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "sess-1", "2", 1)
	require.NoError(t, err)

	c, err := s.RemoveItem(ctx, "sess-1", "1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "2", c.Items[0].Book.ID)
}

func TestClear(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "sess-1", "1", 1)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, "sess-1"))

	c, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

// TestSessionIsolation 不同会话的购物车互不影响
func TestSessionIsolation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.AddItem(ctx, "sess-1", "1", 1)
	require.NoError(t, err)

	other, err := s.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}
