package console

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	consoleapp "github.com/points-admin/console/internal/console"
	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/i18n"
	"github.com/points-admin/console/internal/provider"
	"github.com/points-admin/console/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler 控制台接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建控制台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// viewportHeader 前端上报的视口宽度
const viewportHeader = "X-Viewport-Width"

// bootstrap 为当前请求执行一次控制台启动流程
func (h *Handler) bootstrap(c *gin.Context, sess *store.Session, refresh bool) (*consoleapp.App, error) {
	width := viewportWidth(c)
	return consoleapp.Bootstrap(c.Request.Context(), consoleapp.Deps{
		Store:         h.Sessions,
		Session:       sess,
		Client:        h.APIClient,
		Guard:         h.Guard,
		Routes:        h.Routes,
		APIPrefix:     h.Config.Backend.Prefix,
		Locale:        i18n.ResolveLocale(c),
		CollapseWidth: h.Config.Console.CollapseWidth,
		Width:         func() int { return width },
		Anchor:        h.Config.Console.Anchor,
		Refresh:       refresh,
	})
}

func viewportWidth(c *gin.Context) int {
	raw := strings.TrimSpace(c.GetHeader(viewportHeader))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("width"))
	}
	width, err := strconv.Atoi(raw)
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

func (h *Handler) setSessionCookie(c *gin.Context, sess *store.Session) {
	maxAge := int(h.Sessions.TTL().Seconds())
	if sess != nil && !sess.ExpiresAt.IsZero() {
		if remaining := int(time.Until(sess.ExpiresAt).Seconds()); remaining > 0 && remaining < maxAge {
			maxAge = remaining
		}
	}
	value := ""
	if sess != nil {
		value = sess.ID
	} else {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName(), value, maxAge, "/", "", h.Config.Session.Secure, true)
}

func (h *Handler) cookieName() string {
	if name := strings.TrimSpace(h.Config.Session.CookieName); name != "" {
		return name
	}
	return constants.ContextKeySession
}
