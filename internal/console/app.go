// Package console 控制台应用根与启动流程
package console

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/points-admin/console/internal/events"
	"github.com/points-admin/console/internal/i18n"
	"github.com/points-admin/console/internal/store"
)

// DefaultAnchor 控制台挂载点
const DefaultAnchor = "#app"

var (
	// ErrAlreadyMounted 应用已挂载
	ErrAlreadyMounted = errors.New("console already mounted")
	// ErrEmptyAnchor 挂载点为空
	ErrEmptyAnchor = errors.New("mount anchor is empty")
)

// Plugin 应用插件
type Plugin interface {
	Name() string
	Install(app *App) error
}

// PluginFunc 函数形式的插件
type PluginFunc struct {
	PluginName string
	Fn         func(app *App) error
}

// Name 插件名
func (p PluginFunc) Name() string { return p.PluginName }

// Install 安装插件
func (p PluginFunc) Install(app *App) error { return p.Fn(app) }

// App 控制台应用根
type App struct {
	mu         sync.Mutex
	events     events.Registrar
	store      *store.Store
	session    *store.Session
	router     *Router
	directives *Directives
	viewport   *Viewport
	bundle     *i18n.Bundle
	installed  []string
	anchor     string
}

// NewApp 创建应用根
func NewApp(registrar events.Registrar) *App {
	if registrar == nil {
		registrar = events.NewTarget()
	}
	return &App{events: registrar}
}

// Use 安装插件，挂载后不再接受插件
func (a *App) Use(p Plugin) error {
	if p == nil {
		return fmt.Errorf("console plugin is nil")
	}
	a.mu.Lock()
	mounted := a.anchor != ""
	a.mu.Unlock()
	if mounted {
		return ErrAlreadyMounted
	}
	if err := p.Install(a); err != nil {
		return fmt.Errorf("install %s plugin failed: %w", p.Name(), err)
	}
	a.mu.Lock()
	a.installed = append(a.installed, p.Name())
	a.mu.Unlock()
	return nil
}

// Mount 挂载到指定锚点
func (a *App) Mount(anchor string) error {
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return ErrEmptyAnchor
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.anchor != "" {
		return ErrAlreadyMounted
	}
	a.anchor = anchor
	return nil
}

// Mounted 是否已挂载
func (a *App) Mounted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.anchor != ""
}

// Anchor 挂载点
func (a *App) Anchor() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.anchor
}

// Installed 已安装插件，按安装顺序
func (a *App) Installed() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.installed))
	copy(out, a.installed)
	return out
}

// Events 事件注册器
func (a *App) Events() events.Registrar { return a.events }

// Store 会话存储
func (a *App) Store() *store.Store { return a.store }

// Session 当前会话，匿名时为 nil
func (a *App) Session() *store.Session { return a.session }

// Router 路由
func (a *App) Router() *Router { return a.router }

// Directives 指令集
func (a *App) Directives() *Directives { return a.directives }

// Viewport 视口状态
func (a *App) Viewport() *Viewport { return a.viewport }

// I18n 文案包
func (a *App) I18n() *i18n.Bundle { return a.bundle }
