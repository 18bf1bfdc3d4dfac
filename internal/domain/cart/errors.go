package cart

import "errors"

var (
	// ErrItemNotFound 购物车中没有该图书
	ErrItemNotFound = errors.New("购物车中没有该图书")

	// ErrInvalidQuantity 数量非法
	ErrInvalidQuantity = errors.New("数量非法")

	// ErrEmpty 购物车为空
	ErrEmpty = errors.New("购物车为空")
)
