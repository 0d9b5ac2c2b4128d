package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/points-admin/console/internal/config"
	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/http/handlers/shared"
	"github.com/points-admin/console/internal/i18n"
	"github.com/points-admin/console/internal/logger"
	"github.com/points-admin/console/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = constants.ContextKeyRequestID
const requestIDHeader = "X-Request-ID"

// defaultCORSHeaders 控制台前端会发送的请求头
var defaultCORSHeaders = []string{
	"Content-Type",
	"Accept-Language",
	"Cache-Control",
	"X-Requested-With",
	"X-Viewport-Width",
	i18n.HeaderKey,
	constants.SessionHeader,
}

// originPolicy 跨域来源判定
type originPolicy struct {
	wildcard    bool
	credentials bool
	origins     map[string]struct{}
}

func newOriginPolicy(allowed []string, credentials bool) originPolicy {
	p := originPolicy{credentials: credentials, origins: make(map[string]struct{}, len(allowed))}
	if len(allowed) == 0 {
		p.wildcard = true
	}
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			p.wildcard = true
			continue
		}
		p.origins[strings.ToLower(origin)] = struct{}{}
	}
	return p
}

// allow 返回应写入 Access-Control-Allow-Origin 的值，空串表示不放行
// 携带凭证时不能返回 *，改为回显来源
func (p originPolicy) allow(origin string) string {
	if p.wildcard {
		if p.credentials && origin != "" {
			return origin
		}
		return "*"
	}
	if _, ok := p.origins[strings.ToLower(origin)]; ok && origin != "" {
		return origin
	}
	return ""
}

// CORSMiddleware 跨域中间件，预检请求直接返回 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newOriginPolicy(cfg.AllowedOrigins, cfg.AllowCredentials)
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}
	methodsValue := strings.Join(methods, ", ")
	headersValue := strings.Join(headers, ", ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := policy.allow(c.GetHeader("Origin")); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Headers", headersValue)
		h.Set("Access-Control-Allow-Methods", methodsValue)
		h.Set("Access-Control-Expose-Headers", requestIDHeader)
		if cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// quietPaths 只在出错时记录日志的路径
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// LoggerMiddleware 结构化请求日志：5xx 记 error，4xx 记 warn
func LoggerMiddleware(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.L()
	}
	sugar := base.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if _, quiet := quietPaths[c.Request.URL.Path]; quiet && status < http.StatusBadRequest {
			return
		}
		kv := []interface{}{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if sess := shared.CurrentSession(c); sess != nil {
			kv = append(kv, "username", sess.Username)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case status >= http.StatusInternalServerError || len(c.Errors) > 0:
			sugar.Errorw("request", kv...)
		case status >= http.StatusBadRequest:
			sugar.Warnw("request", kv...)
		default:
			sugar.Infow("request", kv...)
		}
	}
}

// SessionMiddleware 解析控制台会话：cookie 优先，其次请求头；无效会话按匿名处理
func SessionMiddleware(sessions *store.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.Next()
			return
		}
		id, _ := c.Cookie(cookieName)
		id = strings.TrimSpace(id)
		if id == "" {
			id = strings.TrimSpace(c.GetHeader(constants.SessionHeader))
		}
		if id == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		sess, err := sessions.Load(ctx, id)
		if err != nil {
			if !errors.Is(err, store.ErrSessionNotFound) {
				logger.Warnw("console_session_load_failed", "request_id", c.GetString(requestIDKey), "error", err)
			}
			c.Next()
			return
		}
		if err := sessions.Touch(ctx, sess); err != nil {
			logger.Debugw("console_session_touch_failed", "session_id", sess.ID, "error", err)
		}

		c.Set(constants.ContextKeySession, sess)
		c.Request = c.Request.WithContext(store.WithSessionID(ctx, sess.ID))
		c.Next()
	}
}
