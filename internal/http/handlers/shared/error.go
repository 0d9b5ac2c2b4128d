package shared

import (
	"net/http"

	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/i18n"
	"github.com/points-admin/console/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 携带 request_id 与会话用户的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	kv := make([]interface{}, 0, 4)
	if id := c.GetString(constants.ContextKeyRequestID); id != "" {
		kv = append(kv, "request_id", id)
	}
	if sess := CurrentSession(c); sess != nil {
		kv = append(kv, "username", sess.Username)
	}
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// RespondError 按 i18n key 返回错误响应
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondAppError(c, response.NewError(code, key).Wrap(err))
}

// RespondErrorWithMsg 返回指定消息的错误响应
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	RespondAppError(c, response.WrapError(code, msg, err))
}

// RespondAppError 按错误链中的 AppError 响应，消息为空时按请求语言翻译 key；
// 带原始错误时记录日志，4xx 记为 warn
func RespondAppError(c *gin.Context, err error) {
	appErr := response.AsAppError(err)
	msg := appErr.Message
	if msg == "" {
		msg = i18n.T(i18n.ResolveLocale(c), appErr.Key)
	}
	if appErr.Err != nil {
		log := RequestLog(c).Errorw
		if appErr.Code >= http.StatusBadRequest && appErr.Code < http.StatusInternalServerError {
			log = RequestLog(c).Warnw
		}
		log("handler_error",
			"path", c.Request.URL.Path,
			"code", appErr.Code,
			"message", msg,
			"error", appErr.Err,
		)
	}
	response.Error(c, appErr.Code, msg)
}
