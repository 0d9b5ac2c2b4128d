package console

import (
	"strings"
	"sync"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/events"
	"github.com/points-admin/console/internal/i18n"
	"github.com/points-admin/console/internal/store"
)

// StorePlugin 安装会话存储
func StorePlugin(s *store.Store, sess *store.Session) Plugin {
	return PluginFunc{PluginName: "store", Fn: func(app *App) error {
		app.store = s
		app.session = sess
		return nil
	}}
}

// RouterPlugin 安装已构建完成的路由
func RouterPlugin(r *Router) Plugin {
	return PluginFunc{PluginName: "router", Fn: func(app *App) error {
		app.router = r
		return nil
	}}
}

// Directive 模板指令，返回元素是否保留
type Directive func(value string) bool

// Directives 指令集
type Directives struct {
	prefix string
	sess   *store.Session
	items  map[string]Directive
}

// Permission 接口权限判定；value 可为操作名、"METHOD /path" 或 /base/userapi 格式的权限标识
func (d *Directives) Permission(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	if b, ok := api.Lookup(value); ok {
		return d.sess.Can(b.Permission(d.prefix))
	}
	if method, path, ok := strings.Cut(value, " "); ok {
		if b, ok := api.Match(method, strings.TrimSpace(path)); ok {
			return d.sess.Can(b.Permission(d.prefix))
		}
		return d.sess.Can(strings.ToLower(method) + strings.TrimSpace(path))
	}
	return d.sess.Can(value)
}

// Apply 执行指令，未注册的指令默认保留
func (d *Directives) Apply(name, value string) bool {
	fn, ok := d.items[name]
	if !ok {
		return true
	}
	return fn(value)
}

// Names 已注册的指令名
func (d *Directives) Names() []string {
	names := make([]string, 0, len(d.items))
	for name := range d.items {
		names = append(names, name)
	}
	return names
}

// DirectivesPlugin 安装 permission 指令，依赖 store 插件中的会话
func DirectivesPlugin(apiPrefix string) Plugin {
	return PluginFunc{PluginName: "directives", Fn: func(app *App) error {
		d := &Directives{prefix: apiPrefix, sess: app.session, items: map[string]Directive{}}
		d.items["permission"] = d.Permission
		app.directives = d
		return nil
	}}
}

// Viewport 视口宽度与侧边栏折叠状态
type Viewport struct {
	mu            sync.Mutex
	width         int
	collapseWidth int
	collapsed     bool
}

// Resize 更新视口宽度，窄于折叠阈值时折叠侧边栏
func (v *Viewport) Resize(width int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.collapsed = width > 0 && width < v.collapseWidth
}

// Width 视口宽度
func (v *Viewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// Collapsed 侧边栏是否折叠
func (v *Viewport) Collapsed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.collapsed
}

// ResizePlugin 安装视口状态并监听 resize 事件
func ResizePlugin(collapseWidth int, width func() int) Plugin {
	return PluginFunc{PluginName: "resize", Fn: func(app *App) error {
		if collapseWidth <= 0 {
			collapseWidth = 1024
		}
		v := &Viewport{collapseWidth: collapseWidth}
		if width != nil {
			v.Resize(width())
			passive := true
			app.events.AddEventListener("resize", func(*events.Event) {
				v.Resize(width())
			}, &events.ListenerOptions{Passive: &passive})
		}
		app.viewport = v
		return nil
	}}
}

// I18nPlugin 安装文案包
func I18nPlugin(locale string) Plugin {
	return PluginFunc{PluginName: "i18n", Fn: func(app *App) error {
		app.bundle = i18n.NewBundle(locale)
		return nil
	}}
}
