// Package transport 封装访问管理后台的 HTTP 请求
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxLoggedBody = 2048

// HTTP 后台请求执行器，实现 api.Transport
type HTTP struct {
	client      *http.Client
	base        string
	prefix      string
	tokenHeader string
	tokens      TokenSource
	metrics     *clientMetrics
	logger      *zap.SugaredLogger
	log         bool
	logBody     bool
}

// New 创建后台请求执行器；WithHTTPClient 传入的 client 会被复制，调用方的实例保持不变
func New(cfg config.BackendConfig, tokens TokenSource, opts ...Option) (*HTTP, error) {
	o := evaluateOptions(opts)
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse backend base url failed: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported backend scheme %q", u.Scheme)
	}
	h := &HTTP{
		base:        strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/"),
		prefix:      "/" + strings.Trim(cfg.Prefix, "/"),
		tokenHeader: cfg.TokenHeader,
		tokens:      tokens,
		logger:      o.logger,
		log:         cfg.Log || cfg.LogBody,
		logBody:     cfg.LogBody,
	}
	if h.prefix == "/" {
		h.prefix = ""
	}
	if h.tokenHeader == "" {
		h.tokenHeader = "token"
	}
	client := &http.Client{Timeout: cfg.Timeout()}
	if o.client != nil {
		cloned := *o.client
		client = &cloned
	}
	if h.logger == nil {
		h.logger = zap.S()
	}
	if cfg.Tracing {
		base := client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		client.Transport = otelhttp.NewTransport(base,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
	h.client = client
	if cfg.Metrics {
		h.metrics = o.metrics
		if h.metrics == nil {
			h.metrics = defaultClientMetrics
		}
	}
	return h, nil
}

// URL 拼接后台完整地址
func (h *HTTP) URL(path string, query url.Values) string {
	target := h.base + h.prefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// Do 执行一次请求：不重试，非 2xx 或业务码非 200 均返回错误
func (h *HTTP) Do(ctx context.Context, req api.Request) (resp *api.Response, err error) {
	start := time.Now()
	var reqBody, respBody []byte
	statusCode := 0
	defer func() {
		h.onRequestClose(ctx, req, start, reqBody, respBody, statusCode, err)
	}()

	header := http.Header{}
	header.Set("Accept", "application/json")
	if req.Body != nil {
		reqBody, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body failed: %w", err)
		}
		header.Set("Content-Type", "application/json")
	}
	if !req.NoNeedToken && h.tokens != nil {
		token, tokenErr := h.tokens.Token(ctx)
		if tokenErr != nil {
			err = tokenErr
			return nil, err
		}
		if token != "" {
			header.Set(h.tokenHeader, token)
		}
	}

	var body io.Reader
	if len(reqBody) > 0 {
		body = bytes.NewReader(reqBody)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, h.URL(req.Path, req.Query), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header = header

	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	statusCode = httpResp.StatusCode
	respBody, err = io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		err = &StatusError{StatusCode: statusCode, Body: truncate(respBody), Msg: errorMessage(respBody)}
		return nil, err
	}

	resp = &api.Response{}
	if err = json.Unmarshal(respBody, resp); err != nil {
		err = fmt.Errorf("can not unmarshal %s to response: %w", truncate(respBody), err)
		return nil, err
	}
	if !resp.OK() {
		err = &APIError{Code: resp.Code, Msg: resp.Msg}
		return resp, err
	}
	return resp, nil
}

// Close 关闭空闲连接
func (h *HTTP) Close(_ context.Context) error {
	h.client.CloseIdleConnections()
	return nil
}

func (h *HTTP) onRequestClose(_ context.Context, req api.Request, start time.Time,
	reqBody, respBody []byte, statusCode int, err error,
) {
	used := time.Since(start)
	if h.metrics != nil {
		h.metrics.handled.WithLabelValues(req.Method, req.Path, statusLabel(statusCode), resultLabel(err)).Inc()
		h.metrics.latency.WithLabelValues(req.Method, req.Path).Observe(used.Seconds())
	}
	if !h.log {
		return
	}
	kv := []interface{}{
		"method", req.Method,
		"path", req.Path,
		"status", statusCode,
		"latency_ms", used.Milliseconds(),
	}
	if h.logBody {
		kv = append(kv, "request", truncate(reqBody), "response", truncate(respBody))
	}
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			kv = append(kv, "code", apiErr.Code)
		}
		h.logger.Warnw("backend_request_failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debugw("backend_request", kv...)
}

// statusLabel HTTP 状态码，未拿到响应时为 error
func statusLabel(statusCode int) string {
	if statusCode == 0 {
		return "error"
	}
	return strconv.Itoa(statusCode)
}

// resultLabel 请求结果：ok、业务码拒绝 rejected、其余 error；业务码本身只写日志，避免标签无界增长
func resultLabel(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "rejected"
	default:
		return "error"
	}
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody])
	}
	return string(b)
}
