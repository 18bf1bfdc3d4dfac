package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

func testBook(id string, price int64, discount int) *book.Book {
	return &book.Book{ID: id, Title: "Книга " + id, Price: price, DiscountPercentage: discount}
}

func TestAddItem_MergesSameBook(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem(testBook("1", 500, 0), 1))
	require.NoError(t, c.AddItem(testBook("1", 500, 0), 2))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, c.TotalQuantity)
	assert.Equal(t, int64(1500), c.Subtotal)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	c := New()

	assert.ErrorIs(t, c.AddItem(testBook("1", 500, 0), 0), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

// TestRecalc_DiscountRounded 折扣让利累计后四舍五入
func TestRecalc_DiscountRounded(t *testing.T) {
	c := New()

	// 999×15% = 149.85/本，2本=299.7 → 300
	require.NoError(t, c.AddItem(testBook("1", 999, 15), 2))

	assert.Equal(t, int64(1998), c.Subtotal)
	assert.Equal(t, int64(300), c.Discount)
	assert.Equal(t, int64(1698), c.Total)
}

func TestRecalc_MixedItems(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem(testBook("1", 1000, 20), 1)) // 让利200
	require.NoError(t, c.AddItem(testBook("2", 600, 0), 2))   // 无折扣

	assert.Equal(t, 3, c.TotalQuantity)
	assert.Equal(t, int64(2200), c.Subtotal)
	assert.Equal(t, int64(200), c.Discount)
	assert.Equal(t, int64(2000), c.Total)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(testBook("1", 500, 0), 1))

	require.NoError(t, c.UpdateQuantity("1", 5))
	assert.Equal(t, 5, c.TotalQuantity)
	assert.Equal(t, int64(2500), c.Total)

	// 数量为0等价于移除
	require.NoError(t, c.UpdateQuantity("1", 0))
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.Total)
}

func TestUpdateQuantity_Errors(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(testBook("1", 500, 0), 1))

	assert.ErrorIs(t, c.UpdateQuantity("1", -1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.UpdateQuantity("404", 2), ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(testBook("1", 500, 0), 1))
	require.NoError(t, c.AddItem(testBook("2", 300, 0), 1))

	require.NoError(t, c.RemoveItem("1"))

	require.Len(t, c.Items, 1)
	assert.Equal(t, "2", c.Items[0].Book.ID)
	assert.Equal(t, int64(300), c.Total)

	assert.ErrorIs(t, c.RemoveItem("1"), ErrItemNotFound)
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(testBook("1", 500, 10), 3))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalQuantity)
	assert.Equal(t, int64(0), c.Subtotal)
	assert.Equal(t, int64(0), c.Discount)
}
