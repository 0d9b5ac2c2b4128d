package constants

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因常量
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonBackendUnavailable = "backend_unavailable"
	LoginLogFailReasonSessionFailed      = "session_failed"
	LoginLogFailReasonInternalError      = "internal_error"
)

// 登录来源常量
const (
	LoginSourceAdmin  = "admin"
	LoginSourceClient = "client"
)

// 上下文键常量
const (
	ContextKeyRequestID = "request_id"
	ContextKeySession   = "console_session"
)

// 会话请求头，未携带 cookie 时使用
const SessionHeader = "X-Console-Session"
