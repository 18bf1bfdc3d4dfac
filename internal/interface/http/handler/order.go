package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshop/internal/application/order"
	domaincart "github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/storage"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 结算HTTP处理器
type OrderHandler struct {
	orderService *apporder.Service
}

// NewOrderHandler 创建结算处理器
func NewOrderHandler(orderService *apporder.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout 提交订单
// @Summary      提交订单
// @Description  校验表单、生成订单快照、发布订单事件、清空购物车
// @Tags         结算
// @Accept       json
// @Produce      json
// @Param        request body dto.CheckoutRequest true "结算表单"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      400 {object} response.Response "表单错误或购物车为空"
// @Router       /api/v1/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	sessionID := middleware.MustGetSessionID(c)

	o, err := h.orderService.Checkout(c.Request.Context(), sessionID, req.ToForm())
	if err != nil {
		h.handleCheckoutError(c, err)
		return
	}
	response.Success(c, dto.FromOrder(o))
}

// GetOrder 读取订单快照
// @Summary      查看订单
// @Tags         结算
// @Produce      json
// @Param        orderNo path string true "订单号"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{orderNo} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	sessionID := middleware.MustGetSessionID(c)

	o, err := h.orderService.GetOrder(c.Request.Context(), sessionID, c.Param("orderNo"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.ErrorWithCode(c, 40400, "订单不存在")
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FromOrder(o))
}

// handleCheckoutError 结算错误映射
func (h *OrderHandler) handleCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domaincart.ErrEmpty):
		response.ErrorWithCode(c, 40001, "购物车为空")
	case errors.Is(err, order.ErrNameRequired),
		errors.Is(err, order.ErrEmailInvalid),
		errors.Is(err, order.ErrAddressRequired),
		errors.Is(err, order.ErrCardDetailsRequired),
		errors.Is(err, order.ErrUnknownPaymentMethod):
		response.ErrorWithCode(c, 40000, err.Error())
	default:
		response.ErrorWithCode(c, 40003, "结算失败，请稍后重试")
	}
}
