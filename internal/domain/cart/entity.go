// Package cart 购物车领域模型
//
// 购物车按访客会话持久化（KV存储），汇总金额不存储而是每次变更后
// 重算，避免条目与汇总不一致。
package cart

import (
	"math"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// Item 购物车条目
type Item struct {
	Book     *book.Book `json:"book"`
	Quantity int        `json:"quantity"`
}

// Cart 购物车
type Cart struct {
	Items []*Item `json:"items"`

	// 以下为派生字段，由recalc维护
	TotalQuantity int   `json:"totalQuantity"`
	Subtotal      int64 `json:"subtotal"` // 原价小计
	Discount      int64 `json:"discount"` // 折扣让利（四舍五入）
	Total         int64 `json:"total"`    // 应付金额
}

// New 创建空购物车
func New() *Cart {
	return &Cart{Items: []*Item{}}
}

// AddItem 加入图书
// 已存在的条目增加数量，否则追加新条目。
func (c *Cart) AddItem(b *book.Book, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	for _, item := range c.Items {
		if item.Book.ID == b.ID {
			item.Quantity += quantity
			c.recalc()
			return nil
		}
	}

	c.Items = append(c.Items, &Item{Book: b, Quantity: quantity})
	c.recalc()
	return nil
}

// UpdateQuantity 修改条目数量
// 数量减到0等价于移除条目。
func (c *Cart) UpdateQuantity(bookID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return c.RemoveItem(bookID)
	}

	for _, item := range c.Items {
		if item.Book.ID == bookID {
			item.Quantity = quantity
			c.recalc()
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem 移除条目
func (c *Cart) RemoveItem(bookID string) error {
	for i, item := range c.Items {
		if item.Book.ID == bookID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recalc()
			return nil
		}
	}
	return ErrItemNotFound
}

// Clear 清空购物车
func (c *Cart) Clear() {
	c.Items = []*Item{}
	c.recalc()
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// recalc 重算汇总字段
//
// 小计按原价累加；折扣让利逐条按折后价差累计（浮点），
// 最后四舍五入为整数金额；应付=小计-折扣。
func (c *Cart) recalc() {
	var quantity int
	var subtotal int64
	var discount float64

	for _, item := range c.Items {
		quantity += item.Quantity
		subtotal += item.Book.Price * int64(item.Quantity)
		if item.Book.HasDiscount() {
			perItem := float64(item.Book.Price) - item.Book.DiscountedPrice()
			discount += perItem * float64(item.Quantity)
		}
	}

	c.TotalQuantity = quantity
	c.Subtotal = subtotal
	c.Discount = int64(math.Round(discount))
	c.Total = subtotal - c.Discount
}
