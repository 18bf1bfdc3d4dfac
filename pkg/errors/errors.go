package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如Redis错误、上游HTTP错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（缓存异常、上游服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal    = 50000 // 内部错误
	ErrCodeStoreError  = 50001 // 持久化存储错误
	ErrCodeRedisError  = 50002 // Redis错误
	ErrCodeUpstream    = 50003 // 上游图书服务错误（已降级为本地数据，仅内部记录）
	ErrCodeQueryFailed = 50004 // 目录查询失败

	// 会话错误（40100-40199）
	ErrCodeNoSession    = 40100 // 缺少会话
	ErrCodeInvalidToken = 40101 // 会话Token无效
	ErrCodeTokenExpired = 40102 // 会话Token过期

	// 资源错误（40400-40499）
	ErrCodeNotFound       = 40400 // 资源不存在(通用)
	ErrCodeBookNotFound   = 40402 // 图书不存在
	ErrCodePageOutOfRange = 40404 // 页码超出范围

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError   = 40000 // 业务错误(通用)
	ErrCodeCartEmpty       = 40001 // 购物车为空
	ErrCodeInvalidQuantity = 40002 // 商品数量非法
	ErrCodeCheckoutFailed  = 40003 // 结算失败

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal   = New(ErrCodeInternal, "系统内部错误")
	ErrStoreError = New(ErrCodeStoreError, "存储服务错误")
	ErrRedisError = New(ErrCodeRedisError, "缓存服务错误")

	// 会话
	ErrNoSession    = New(ErrCodeNoSession, "缺少会话信息")
	ErrInvalidToken = New(ErrCodeInvalidToken, "无效的会话Token")
	ErrTokenExpired = New(ErrCodeTokenExpired, "会话Token已过期")

	// 资源不存在
	ErrBookNotFound   = New(ErrCodeBookNotFound, "图书不存在")
	ErrPageOutOfRange = New(ErrCodePageOutOfRange, "页码超出范围")

	// 业务规则
	ErrCartEmpty       = New(ErrCodeCartEmpty, "购物车为空")
	ErrInvalidQuantity = New(ErrCodeInvalidQuantity, "数量必须大于0")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}
