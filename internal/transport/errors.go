package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// StatusError 后台返回非 2xx 状态码
type StatusError struct {
	StatusCode int
	Body       string
	// Msg 从响应体 msg 或 detail 字段提取
	Msg string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("backend http status %d: %s", e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("backend http status %d", e.StatusCode)
}

// Message 返回后台给出的错误描述
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Msg
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Msg
	}
	return ""
}

// IsRejected 后台明确拒绝（业务码失败或 4xx）
func IsRejected(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusBadRequest && statusErr.StatusCode < http.StatusInternalServerError
	}
	return false
}

func errorMessage(body []byte) string {
	var payload struct {
		Msg    string          `json:"msg"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Msg != "" {
		return payload.Msg
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		return detail
	}
	return ""
}

// APIError 后台业务码非 200
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend code %d: %s", e.Code, e.Msg)
}

// IsUnauthorized 判断是否为登录失效
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusUnauthorized
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized
	}
	return false
}
