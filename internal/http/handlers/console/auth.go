package console

import (
	"errors"
	"time"

	consoleapp "github.com/points-admin/console/internal/console"
	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/http/handlers/shared"
	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/i18n"
	"github.com/points-admin/console/internal/routes"
	"github.com/points-admin/console/internal/service"
	"github.com/points-admin/console/internal/store"
	"github.com/points-admin/console/internal/transport"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse 会话与控制台挂载信息
type SessionResponse struct {
	SessionID   string            `json:"session_id"`
	UserID      int64             `json:"user_id"`
	Username    string            `json:"username"`
	Avatar      string            `json:"avatar"`
	IsSuperuser bool              `json:"is_superuser"`
	Roles       []string          `json:"roles"`
	ExpiresAt   string            `json:"expires_at"`
	Anchor      string            `json:"anchor"`
	Plugins     []string          `json:"plugins"`
	Directives  []string          `json:"directives"`
	Collapsed   bool              `json:"collapsed"`
	Locale      string            `json:"locale"`
	Menu        []routes.MenuItem `json:"menu"`
	Affixed     []routes.MenuItem `json:"affixed"`
	Permissions []string          `json:"permissions"`
}

// AdminLogin 管理端登录
func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, constants.LoginSourceAdmin)
}

// ClientLogin 客户端登录
func (h *Handler) ClientLogin(c *gin.Context) {
	h.login(c, constants.LoginSourceClient)
}

func (h *Handler) login(c *gin.Context, source string) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	sess, err := h.AuthService.Login(c.Request.Context(), service.LoginInput{
		Source:    source,
		Username:  req.Username,
		Password:  req.Password,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: shared.RequestID(c),
	})
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	app, err := h.bootstrap(c, sess, true)
	if err != nil {
		_ = h.AuthService.Logout(c.Request.Context(), sess.ID)
		h.respondBackendError(c, err)
		return
	}
	sess = app.Session()
	h.setSessionCookie(c, sess)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.login_success"), buildSessionResponse(app, sess))
}

func (h *Handler) respondLoginError(c *gin.Context, err error) {
	var rejected *service.BackendRejectedError
	switch {
	case errors.Is(err, service.ErrInvalidLoginInput):
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
	case errors.As(err, &rejected):
		msg := rejected.Msg
		if msg == "" {
			msg = i18n.T(i18n.ResolveLocale(c), "error.login_failed")
		}
		shared.RespondErrorWithMsg(c, response.CodeUnauthorized, msg, nil)
	case errors.Is(err, service.ErrTooManyAttempts):
		wait := h.Config.Security.LoginRateLimit.BlockSeconds
		if wait <= 0 {
			wait = h.Config.Security.LoginRateLimit.WindowSeconds
		}
		shared.RespondErrorWithMsg(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), "error.login_too_many", wait), nil)
	case errors.Is(err, service.ErrBackendUnavailable):
		shared.RespondAppError(c, response.ErrBackendUnavailable.Wrap(err))
	default:
		shared.RespondError(c, response.CodeInternal, "error.login_failed", err)
	}
}

// respondBackendError 把后台调用错误映射为控制台响应
func (h *Handler) respondBackendError(c *gin.Context, err error) {
	switch {
	case transport.IsUnauthorized(err):
		shared.RespondError(c, response.CodeUnauthorized, "error.session_invalid", nil)
	case transport.IsRejected(err):
		shared.RespondErrorWithMsg(c, response.CodeBadGateway, i18n.Sprintf(i18n.ResolveLocale(c), "error.backend_rejected", transport.Message(err)), err)
	default:
		shared.RespondAppError(c, response.ErrBackendUnavailable.Wrap(err))
	}
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	if sess := shared.CurrentSession(c); sess != nil {
		if err := h.AuthService.Logout(c.Request.Context(), sess.ID); err != nil {
			shared.RespondError(c, response.CodeInternal, "error.internal", err)
			return
		}
	}
	h.setSessionCookie(c, nil)
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.logout_success"), nil)
}

// Me 当前会话与控制台挂载信息
func (h *Handler) Me(c *gin.Context) {
	sess, ok := shared.RequireSession(c)
	if !ok {
		return
	}
	app, err := h.bootstrap(c, sess, c.Query("refresh") == "1")
	if err != nil {
		h.respondBackendError(c, err)
		return
	}
	response.Success(c, buildSessionResponse(app, app.Session()))
}

func buildSessionResponse(app *consoleapp.App, sess *store.Session) SessionResponse {
	resp := SessionResponse{
		Anchor:      app.Anchor(),
		Plugins:     app.Installed(),
		Directives:  app.Directives().Names(),
		Collapsed:   app.Viewport().Collapsed(),
		Locale:      app.I18n().Locale,
		Menu:        app.Router().Menu(),
		Affixed:     app.Router().Registry().Affixed(),
		Roles:       []string{},
		Permissions: []string{},
	}
	if sess == nil {
		return resp
	}
	resp.SessionID = sess.ID
	resp.UserID = sess.UserID
	resp.Username = sess.Username
	resp.Avatar = sess.Avatar
	resp.IsSuperuser = sess.IsSuperuser
	resp.ExpiresAt = sess.ExpiresAt.Format(time.RFC3339)
	if sess.Roles != nil {
		resp.Roles = sess.Roles
	}
	if sess.APIs != nil {
		resp.Permissions = sess.APIs
	}
	return resp
}
