package dto

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address" binding:"required"`

	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=card paypal cash"`

	CardNumber string `json:"cardNumber"`
	CardExpiry string `json:"cardExpiry"`
	CardCVC    string `json:"cardCvc"`
}

// ToForm 转换为领域结算表单
func (r *CheckoutRequest) ToForm() *order.CheckoutForm {
	return &order.CheckoutForm{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		PaymentMethod: r.PaymentMethod,
		CardNumber:    r.CardNumber,
		CardExpiry:    r.CardExpiry,
		CardCVC:       r.CardCVC,
	}
}

// OrderResponse 订单响应
type OrderResponse struct {
	OrderNo       string              `json:"orderNo"`
	Items         []*CartItemResponse `json:"items"`
	TotalQuantity int                 `json:"totalQuantity"`
	Subtotal      int64               `json:"subtotal"`
	Discount      int64               `json:"discount"`
	Total         int64               `json:"total"`
	PaymentMethod string              `json:"paymentMethod"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// FromOrder 领域订单转响应
func FromOrder(o *order.Order) *OrderResponse {
	items := make([]*CartItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = &CartItemResponse{
			Book:     FromBook(item.Book),
			Quantity: item.Quantity,
			Subtotal: item.Book.Price * int64(item.Quantity),
		}
	}
	return &OrderResponse{
		OrderNo:       o.OrderNo,
		Items:         items,
		TotalQuantity: o.TotalQuantity,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}

// ThemeRequest 主题偏好请求
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark system"`
}

// ThemeResponse 主题偏好响应
type ThemeResponse struct {
	Theme string `json:"theme"`
}
