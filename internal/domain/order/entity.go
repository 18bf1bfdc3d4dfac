// Package order 订单领域模型
//
// 书城没有真正的订单后端：结算只生成订单快照（按会话持久化）
// 并发布订单事件，后续履约由下游系统负责。
package order

import (
	"strings"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/cart"
)

// 支付方式
const (
	PaymentCard   = "card"
	PaymentPayPal = "paypal"
	PaymentCash   = "cash" // 货到付款
)

// CheckoutForm 结算表单
type CheckoutForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	PaymentMethod string `json:"paymentMethod"`

	// 银行卡支付时必填
	CardNumber string `json:"cardNumber,omitempty"`
	CardExpiry string `json:"cardExpiry,omitempty"`
	CardCVC    string `json:"cardCvc,omitempty"`
}

// Validate 校验结算表单
func (f *CheckoutForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(f.Email) == "" || !strings.Contains(f.Email, "@") {
		return ErrEmailInvalid
	}
	if strings.TrimSpace(f.Address) == "" {
		return ErrAddressRequired
	}

	switch f.PaymentMethod {
	case PaymentCard:
		// 卡信息只在卡支付时要求
		if strings.TrimSpace(f.CardNumber) == "" ||
			strings.TrimSpace(f.CardExpiry) == "" ||
			strings.TrimSpace(f.CardCVC) == "" {
			return ErrCardDetailsRequired
		}
	case PaymentPayPal, PaymentCash:
		// 无需额外字段
	default:
		return ErrUnknownPaymentMethod
	}

	return nil
}

// Order 订单快照
type Order struct {
	OrderNo   string       `json:"orderNo"`
	SessionID string       `json:"sessionId"`
	Items     []*cart.Item `json:"items"`

	TotalQuantity int   `json:"totalQuantity"`
	Subtotal      int64 `json:"subtotal"`
	Discount      int64 `json:"discount"`
	Total         int64 `json:"total"`

	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewOrder 从购物车和结算表单生成订单快照
// 卡号等敏感字段不进入快照。
func NewOrder(sessionID string, c *cart.Cart, form *CheckoutForm) *Order {
	return &Order{
		OrderNo:       NewOrderNo(),
		SessionID:     sessionID,
		Items:         c.Items,
		TotalQuantity: c.TotalQuantity,
		Subtotal:      c.Subtotal,
		Discount:      c.Discount,
		Total:         c.Total,
		Name:          form.Name,
		Email:         form.Email,
		Phone:         form.Phone,
		Address:       form.Address,
		PaymentMethod: form.PaymentMethod,
		CreatedAt:     time.Now(),
	}
}
