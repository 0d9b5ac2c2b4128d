package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/i18n"
	"github.com/points-admin/console/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	// BlockSeconds 超限后封禁时长，0 表示只等窗口过期
	BlockSeconds int
	MessageKey   string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(raw string) (counter, block string) {
	counter = raw
	if r.Prefix != "" {
		counter = r.Prefix + ":" + raw
	}
	return counter, counter + ":block"
}

// KEYS[1] 计数 key，KEYS[2] 封禁 key；ARGV 依次为窗口秒数、上限、封禁秒数
// 返回 {计数, 剩余秒数}，处于封禁期时计数固定为上限加一
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {tonumber(ARGV[2]) + 1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
if current > tonumber(ARGV[2]) and tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], "1", "EX", ARGV[3])
	redis.call("DEL", KEYS[1])
	ttl = tonumber(ARGV[3])
end
return {current, ttl}
`)

// hit 计数一次，返回是否超限与需要等待的秒数
func hit(ctx context.Context, client *redis.Client, rule RateLimitRule, raw string) (bool, int, error) {
	counter, block := rule.key(raw)
	values, err := rateLimitScript.Run(ctx, client, []string{counter, block},
		rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(values) < 2 {
		return false, 0, redis.Nil
	}
	if values[0] <= int64(rule.MaxRequests) {
		return false, 0, nil
	}
	wait := int(values[1])
	if wait < 1 {
		wait = rule.WindowSeconds
	}
	if wait < 1 {
		wait = 1
	}
	return true, wait, nil
}

// RateLimitMiddleware Redis 频率限制中间件，未配置 Redis 时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.rate_limited"
	}
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}
		raw := ""
		if keyFunc != nil {
			raw = strings.TrimSpace(keyFunc(c))
		}
		if raw == "" {
			raw = c.ClientIP()
		}

		limited, wait, err := hit(c.Request.Context(), client, rule, raw)
		if err != nil {
			logger.Warnw("rate_limit_check_failed", "prefix", rule.Prefix, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if limited {
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, wait))
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段（小写）加客户端 IP 限流，字段缺失时退化为 IP
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// peekJSONString 读取请求体中的字符串字段，并把请求体放回供后续处理
func peekJSONString(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(payload[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
