package dto

import "github.com/xiebiao/bookshop/internal/domain/cart"

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	BookID   string `json:"bookId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest 修改条目数量请求
// 数量0表示移除，所以这里允许0、用指针区分缺席。
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// CartItemResponse 购物车条目响应
type CartItemResponse struct {
	Book     *BookResponse `json:"book"`
	Quantity int           `json:"quantity"`
	Subtotal int64         `json:"subtotal"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Items         []*CartItemResponse `json:"items"`
	TotalQuantity int                 `json:"totalQuantity"`
	Subtotal      int64               `json:"subtotal"`
	Discount      int64               `json:"discount"`
	Total         int64               `json:"total"`
}

// FromCart 领域购物车转响应
func FromCart(c *cart.Cart) *CartResponse {
	items := make([]*CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = &CartItemResponse{
			Book:     FromBook(item.Book),
			Quantity: item.Quantity,
			Subtotal: item.Book.Price * int64(item.Quantity),
		}
	}
	return &CartResponse{
		Items:         items,
		TotalQuantity: c.TotalQuantity,
		Subtotal:      c.Subtotal,
		Discount:      c.Discount,
		Total:         c.Total,
	}
}
