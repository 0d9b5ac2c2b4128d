package console

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/authz"
	"github.com/points-admin/console/internal/events"
	"github.com/points-admin/console/internal/logger"
	"github.com/points-admin/console/internal/routes"
	"github.com/points-admin/console/internal/store"
)

// ErrAlreadyBootstrapped 启动流程只能执行一次
var ErrAlreadyBootstrapped = errors.New("console already bootstrapped")

// Deps 启动依赖
type Deps struct {
	Events        events.Registrar
	Store         *store.Store
	Session       *store.Session
	Client        *api.Client
	Guard         *authz.Guard
	Routes        *routes.Registry
	APIPrefix     string
	Locale        string
	CollapseWidth int
	Width         func() int
	Anchor        string
	Refresh       bool
}

// Bootstrapper 一次性启动器
type Bootstrapper struct {
	started atomic.Bool
}

// Bootstrap 依次执行：被动监听策略、创建应用根、安装 store、等待路由、安装指令/resize/i18n、挂载
// 路由构建失败时原样返回错误且不挂载
func (b *Bootstrapper) Bootstrap(ctx context.Context, deps Deps) (*App, error) {
	if !b.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyBootstrapped
	}

	target := deps.Events
	if target == nil {
		target = events.NewTarget()
	}
	registrar := events.InstallPassiveListeners(target)

	app := NewApp(registrar)

	if err := app.Use(StorePlugin(deps.Store, deps.Session)); err != nil {
		return app, err
	}

	router, err := SetupRouter(ctx, RouterOptions{
		Client:  deps.Client,
		Store:   deps.Store,
		Session: deps.Session,
		Base:    deps.Routes,
		Guard:   deps.Guard,
		Refresh: deps.Refresh,
	})
	if err != nil {
		logger.Warnw("console_router_setup_failed", "error", err)
		return app, err
	}
	if err := app.Use(RouterPlugin(router)); err != nil {
		return app, err
	}

	for _, p := range []Plugin{
		DirectivesPlugin(deps.APIPrefix),
		ResizePlugin(deps.CollapseWidth, deps.Width),
		I18nPlugin(deps.Locale),
	} {
		if err := app.Use(p); err != nil {
			return app, err
		}
	}

	anchor := deps.Anchor
	if anchor == "" {
		anchor = DefaultAnchor
	}
	if err := app.Mount(anchor); err != nil {
		return app, err
	}
	return app, nil
}

// Bootstrap 以新的启动器执行一次启动流程
func Bootstrap(ctx context.Context, deps Deps) (*App, error) {
	var b Bootstrapper
	return b.Bootstrap(ctx, deps)
}
