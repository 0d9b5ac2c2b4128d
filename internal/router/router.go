package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/points-admin/console/internal/config"
	consolehandlers "github.com/points-admin/console/internal/http/handlers/console"
	"github.com/points-admin/console/internal/http/handlers/shared"
	"github.com/points-admin/console/internal/http/response"
	"github.com/points-admin/console/internal/logger"
	"github.com/points-admin/console/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := consolehandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pc"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(SessionMiddleware(c.Sessions, cfg.Session.CookieName))
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	if dir := strings.TrimSpace(cfg.Console.StaticDir); dir != "" {
		r.Static("/assets", dir+"/assets")
	}

	// 控制台接口
	consoleGroup := r.Group("/console")
	{
		loginLimit := RateLimitMiddleware(c.Redis, loginRule, KeyByIPAndJSONField("username"))
		consoleGroup.POST("/login", loginLimit, h.AdminLogin)
		consoleGroup.POST("/client-login", loginLimit, h.ClientLogin)
		consoleGroup.POST("/logout", h.Logout)
		consoleGroup.GET("/me", h.Me)
		consoleGroup.GET("/routes", h.GetRoutes)
		consoleGroup.GET("/menu", h.GetMenu)
		consoleGroup.GET("/guard", h.CheckGuard)
		consoleGroup.GET("/bindings", h.GetBindings)
		consoleGroup.GET("/login-logs", h.GetLoginLogs)
	}

	// 后台接口转发
	apiPrefix := "/" + strings.Trim(cfg.Backend.Prefix, "/")
	if apiPrefix == "/" {
		apiPrefix = "/api/v1"
	}
	r.Any(apiPrefix+"/*path", h.Proxy)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", h.Health)

	// 前端路由交给单页应用
	r.GET("/", h.Shell)
	r.NoRoute(func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodGet && !strings.HasPrefix(ctx.Request.URL.Path, apiPrefix+"/") &&
			!strings.HasPrefix(ctx.Request.URL.Path, "/console/") {
			h.Shell(ctx)
			return
		}
		shared.RespondError(ctx, response.CodeNotFound, "error.not_found", nil)
	})

	return r
}
