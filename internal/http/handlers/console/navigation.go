package console

import (
	"net/url"
	"strings"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/authz"
	"github.com/points-admin/console/internal/http/handlers/shared"
	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/i18n"

	"github.com/gin-gonic/gin"
)

// GuardResponse 导航守卫判定结果
type GuardResponse struct {
	Path     string         `json:"path"`
	Decision authz.Decision `json:"decision"`
	Redirect string         `json:"redirect,omitempty"`
	Message  string         `json:"message"`
}

// GetRoutes 当前会话可访问的页面列表
func (h *Handler) GetRoutes(c *gin.Context) {
	app, err := h.bootstrap(c, shared.CurrentSession(c), false)
	if err != nil {
		h.respondBackendError(c, err)
		return
	}
	response.Success(c, app.Router().Routes())
}

// GetMenu 当前会话的侧边栏菜单
func (h *Handler) GetMenu(c *gin.Context) {
	app, err := h.bootstrap(c, shared.CurrentSession(c), false)
	if err != nil {
		h.respondBackendError(c, err)
		return
	}
	response.Success(c, gin.H{
		"menu":    app.Router().Menu(),
		"affixed": app.Router().Registry().Affixed(),
	})
}

// CheckGuard 判定能否进入指定页面
func (h *Handler) CheckGuard(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	app, err := h.bootstrap(c, shared.CurrentSession(c), false)
	if err != nil {
		h.respondBackendError(c, err)
		return
	}
	decision, err := app.Router().Check(path)
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	locale := i18n.ResolveLocale(c)
	resp := GuardResponse{Path: path, Decision: decision}
	switch decision {
	case authz.Allow:
		resp.Message = i18n.T(locale, "guard.allow")
	case authz.RedirectLogin:
		resp.Message = i18n.T(locale, "guard.redirect_login")
		resp.Redirect = authz.LoginPath + "?redirect=" + url.QueryEscape(path)
	case authz.Forbidden:
		resp.Message = i18n.T(locale, "guard.forbidden")
	default:
		resp.Message = i18n.T(locale, "error.route_not_found")
	}
	response.Success(c, resp)
}

// GetBindings 后台接口绑定表
func (h *Handler) GetBindings(c *gin.Context) {
	response.Success(c, api.Table())
}
