package response

import "errors"

// AppError 控制台错误：业务码加 i18n key，Message 非空时直接使用，不再翻译
type AppError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

// 控制台常用错误，响应时按请求语言翻译
var (
	ErrBadRequest         = NewError(CodeBadRequest, "error.bad_request")
	ErrUnauthorized       = NewError(CodeUnauthorized, "error.unauthorized")
	ErrForbidden          = NewError(CodeForbidden, "error.forbidden")
	ErrBindingNotFound    = NewError(CodeNotFound, "error.binding_not_found")
	ErrBackendUnavailable = NewError(CodeBadGateway, "error.backend_unavailable")
	ErrInternal           = NewError(CodeInternal, "error.internal")
)

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Key
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 业务码与 key 相同即视为同一错误，便于 errors.Is 匹配 Wrap 后的副本
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Key == t.Key
}

// Wrap 返回附带原始错误的副本
func (e *AppError) Wrap(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// NewError 以 i18n key 构造错误
func NewError(code int, key string) *AppError {
	return &AppError{Code: code, Key: key}
}

// WrapError 以已翻译好的消息包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AsAppError 提取错误链中的 AppError，找不到时归为内部错误
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.Wrap(err)
}
