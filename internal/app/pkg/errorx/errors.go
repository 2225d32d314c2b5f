package errorx

import "fmt"

// Error 上游探测错误（携带可重试标记和建议的 HTTP 状态码）
// Retryable=true 表示临时故障（限流、上游抖动），调用方稍后重试即可；
// Retryable=false 表示 Cookie 已失效，必须重新登录获取新的会话
type Error struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return e.Message
}

// Retriable 创建可重试错误（网络错误、上游临时故障等）
func Retriable(code int, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// RetriableWithDetails 创建可重试错误（带详细信息）
func RetriableWithDetails(code int, message string, details string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Retryable:  true,
		DevDetails: details,
	}
}

// AuthFailed 创建登录态失效错误（Cookie 过期、账号被封等，不可重试）
func AuthFailed(message string) *Error {
	return &Error{
		Code:      401,
		Message:   message,
		Retryable: false,
	}
}

// NonRetriable 创建不可重试错误（参数错误、业务规则错误等）
func NonRetriable(code int, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// Wrap 包装错误（未知错误默认可重试，避免把瞬时故障误判成 Cookie 失效）
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	// 如果已经是 Error 类型，直接返回
	if e, ok := err.(*Error); ok {
		return e
	}

	return &Error{
		Code:       503,
		Message:    err.Error(),
		Retryable:  true,
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// IsAuthFailure 判断是否为登录态失效
func IsAuthFailure(err error) bool {
	e, ok := err.(*Error)
	return ok && !e.Retryable && e.Code == 401
}
