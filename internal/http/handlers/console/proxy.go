package console

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/http/handlers/shared"
	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/transport"

	"github.com/gin-gonic/gin"
)

// maxProxyBody 转发请求体上限
const maxProxyBody = 1 << 20

// Proxy 按绑定表把 /api/v1/* 请求转发到管理后台，原样返回后台响应体；只转发需要会话的绑定
func (h *Handler) Proxy(c *gin.Context) {
	path := "/" + strings.TrimLeft(c.Param("path"), "/")
	binding, ok := api.Match(c.Request.Method, path)
	// 免 token 的登录接口只能走 /console/login，那里有限流与登录日志
	if !ok || binding.NoNeedToken {
		shared.RespondAppError(c, response.ErrBindingNotFound)
		return
	}
	if _, ok := shared.RequireSession(c); !ok {
		return
	}

	params, err := proxyParams(c, binding)
	if err != nil {
		shared.RespondAppError(c, response.ErrBadRequest.Wrap(err))
		return
	}

	resp, err := h.APIClient.Invoke(c.Request.Context(), binding, params)
	if err != nil {
		var apiErr *transport.APIError
		if errors.As(err, &apiErr) && resp != nil {
			response.Raw(c, resp)
			return
		}
		shared.RequestLog(c).Warnw("console_proxy_failed",
			"operation", binding.Name,
			"method", binding.Method,
			"path", binding.Path,
			"error", err,
		)
		h.respondBackendError(c, err)
		return
	}
	response.Raw(c, resp)
}

func proxyParams(c *gin.Context, binding api.Binding) (any, error) {
	switch binding.Channel {
	case api.ChannelQuery:
		return c.Request.URL.Query(), nil
	case api.ChannelBody:
		if c.Request.Body == nil {
			return nil, nil
		}
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxProxyBody))
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(string(raw))) == 0 {
			return nil, nil
		}
		if !json.Valid(raw) {
			return nil, errors.New("request body is not valid json")
		}
		return json.RawMessage(raw), nil
	default:
		return nil, nil
	}
}
