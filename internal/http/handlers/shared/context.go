package shared

import (
	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/store"

	"github.com/gin-gonic/gin"
)

// CurrentSession 读取中间件解析出的控制台会话，未登录返回 nil。
func CurrentSession(c *gin.Context) *store.Session {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return nil
	}
	sess, ok := value.(*store.Session)
	if !ok {
		return nil
	}
	return sess
}

// RequireSession 读取会话，缺失时直接返回 401。
func RequireSession(c *gin.Context) (*store.Session, bool) {
	sess := CurrentSession(c)
	if sess == nil {
		RespondAppError(c, response.ErrUnauthorized)
		return nil, false
	}
	return sess, true
}

// RequestID 读取请求追踪ID
func RequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}
