package transport

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type options struct {
	client  *http.Client
	logger  *zap.SugaredLogger
	metrics *clientMetrics
}

// Option 执行器选项
type Option func(*options)

func evaluateOptions(opts []Option) *options {
	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	return opt
}

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithLogger 使用自定义日志
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// TokenSource 提供当前会话的访问令牌
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc 函数形式的 TokenSource
type TokenFunc func(ctx context.Context) (string, error)

// Token 返回令牌
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

type tokenKey struct{}

// WithToken 将令牌绑定到上下文
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext 读取上下文中的令牌
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// ContextTokens 从上下文读取令牌的 TokenSource
var ContextTokens TokenSource = TokenFunc(func(ctx context.Context) (string, error) {
	return TokenFromContext(ctx), nil
})
