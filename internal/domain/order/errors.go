package order

import "errors"

var (
	// ErrNameRequired 收件人姓名必填
	ErrNameRequired = errors.New("收件人姓名必填")

	// ErrEmailInvalid 邮箱格式非法
	ErrEmailInvalid = errors.New("邮箱格式非法")

	// ErrAddressRequired 收货地址必填
	ErrAddressRequired = errors.New("收货地址必填")

	// ErrCardDetailsRequired 银行卡支付必须提供卡信息
	ErrCardDetailsRequired = errors.New("银行卡支付必须提供卡信息")

	// ErrUnknownPaymentMethod 未知的支付方式
	ErrUnknownPaymentMethod = errors.New("未知的支付方式")
)
