package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookshop/internal/application/cart"
	"github.com/xiebiao/bookshop/internal/domain/book"
	domaincart "github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	cartService *appcart.Service
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(cartService *appcart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart 取会话购物车
// @Summary      查看购物车
// @Tags         购物车
// @Produce      json
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	cart, err := h.cartService.Get(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// AddItem 加入购物车
// @Summary      加入购物车
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Param        request body dto.AddCartItemRequest true "图书与数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	cart, err := h.cartService.AddItem(c.Request.Context(), sessionID, req.BookID, req.Quantity)
	if err != nil {
		h.handleCartError(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// UpdateItem 修改条目数量
// @Summary      修改购物车条目数量
// @Description  数量0等价于移除条目
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Param        bookId path string true "图书ID"
// @Param        request body dto.UpdateCartItemRequest true "新数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/cart/items/{bookId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID, c.Param("bookId"), *req.Quantity)
	if err != nil {
		h.handleCartError(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// RemoveItem 移除条目
// @Summary      移除购物车条目
// @Tags         购物车
// @Produce      json
// @Param        bookId path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /api/v1/cart/items/{bookId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	cart, err := h.cartService.RemoveItem(c.Request.Context(), sessionID, c.Param("bookId"))
	if err != nil {
		h.handleCartError(c, err)
		return
	}
	response.Success(c, dto.FromCart(cart))
}

// ClearCart 清空购物车
// @Summary      清空购物车
// @Tags         购物车
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	if err := h.cartService.Clear(c.Request.Context(), sessionID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// handleCartError 购物车错误映射
func (h *CartHandler) handleCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound):
		response.ErrorWithCode(c, 40402, "图书不存在")
	case errors.Is(err, domaincart.ErrItemNotFound):
		response.ErrorWithCode(c, 40404, "购物车中没有该图书")
	case errors.Is(err, domaincart.ErrInvalidQuantity):
		response.ErrorWithCode(c, 40002, "数量非法")
	default:
		response.Error(c, err)
	}
}
