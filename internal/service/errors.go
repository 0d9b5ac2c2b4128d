package service

import "errors"

var (
	// ErrInvalidLoginInput 登录参数缺失
	ErrInvalidLoginInput = errors.New("invalid login input")
	// ErrInvalidCredentials 后台拒绝登录
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBackendUnavailable 管理后台不可用
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrTooManyAttempts 登录失败次数过多
	ErrTooManyAttempts = errors.New("too many login attempts")
	// ErrSessionFailed 会话创建失败
	ErrSessionFailed = errors.New("session create failed")
)
