package console

import (
	"context"
	"fmt"
	"time"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/authz"
	"github.com/points-admin/console/internal/logger"
	"github.com/points-admin/console/internal/routes"
	"github.com/points-admin/console/internal/store"
	"github.com/points-admin/console/internal/transport"
)

// RouterOptions 路由安装参数
type RouterOptions struct {
	Client  *api.Client
	Store   *store.Store
	Session *store.Session
	Base    *routes.Registry
	Guard   *authz.Guard
	// Refresh 为 true 时忽略会话缓存，重新拉取用户信息与菜单
	Refresh bool
}

// Router 按会话权限裁剪后的路由
type Router struct {
	full     *routes.Registry
	registry *routes.Registry
	session  *store.Session
	guard    *authz.Guard
}

// SetupRouter 构建路由：会话未同步时先拉取用户信息、菜单与接口权限，再合并内置页面并按角色过滤
func SetupRouter(ctx context.Context, opts RouterOptions) (*Router, error) {
	base := opts.Base
	if base == nil {
		base = routes.Builtin()
	}
	sess := opts.Session
	if sess == nil {
		reg := repairRoutes(base.FilterByRoles(nil), "")
		return &Router{full: base, registry: reg, guard: opts.Guard}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sess.SyncedAt.IsZero() || opts.Refresh {
		if err := syncSession(ctx, opts.Client, sess); err != nil {
			return nil, err
		}
		if opts.Store != nil {
			if err := opts.Store.Save(ctx, sess); err != nil {
				return nil, err
			}
		}
		if svc := opts.Guard.Service(); svc != nil && sess.UserID > 0 {
			if err := svc.SetSessionRoles(sess.UserID, sess.Roles); err != nil {
				return nil, err
			}
		}
		logger.Debugw("console_session_synced",
			"session_id", sess.ID,
			"user_id", sess.UserID,
			"roles", sess.Roles,
			"menus", len(sess.Menus),
			"apis", len(sess.APIs),
		)
	}

	full := base.Merge(routes.FromServerMenus(sess.Menus)...)
	reg := repairRoutes(full.FilterByRoles(sess.Roles), sess.ID)
	return &Router{full: full, registry: reg, session: sess, guard: opts.Guard}, nil
}

// repairRoutes 修正后台菜单或角色过滤造成的悬空 redirect，内置路由表在启动时已校验
func repairRoutes(reg *routes.Registry, sessionID string) *routes.Registry {
	repaired, fixes := reg.Repair()
	for _, fix := range fixes {
		logger.Warnw("console_route_repaired", "session_id", sessionID, "fix", fix)
	}
	return repaired
}

func syncSession(ctx context.Context, client *api.Client, sess *store.Session) error {
	if client == nil {
		return fmt.Errorf("api client is nil")
	}
	ctx = transport.WithToken(ctx, sess.Token)

	resp, err := client.GetUserInfo(ctx)
	if err != nil {
		return err
	}
	var info api.UserInfo
	if err := resp.Decode(&info); err != nil {
		return err
	}

	resp, err = client.GetUserMenu(ctx)
	if err != nil {
		return err
	}
	var menus []api.Menu
	if err := resp.Decode(&menus); err != nil {
		return err
	}

	resp, err = client.GetUserAPI(ctx)
	if err != nil {
		return err
	}
	var apis []string
	if err := resp.Decode(&apis); err != nil {
		return err
	}
	// 调用方已放弃时不写回会话
	if err := ctx.Err(); err != nil {
		return err
	}

	if info.ID > 0 {
		sess.UserID = info.ID
	}
	if info.Username != "" {
		sess.Username = info.Username
	}
	sess.Avatar = info.Avatar
	sess.IsSuperuser = info.IsSuperuser
	sess.Roles = info.RoleNames()
	sess.Menus = menus
	sess.APIs = apis
	sess.SyncedAt = time.Now()
	return nil
}

// Registry 裁剪后的路由表
func (r *Router) Registry() *routes.Registry { return r.registry }

// Session 路由对应的会话
func (r *Router) Session() *store.Session { return r.session }

// Menu 侧边栏菜单
func (r *Router) Menu() []routes.MenuItem { return r.registry.Menu() }

// Routes 扁平化页面列表
func (r *Router) Routes() []routes.RouteEntry { return r.registry.Flatten() }

// Check 导航守卫判定，按未裁剪的路由表解析以区分无权限与不存在
func (r *Router) Check(path string) (authz.Decision, error) {
	return r.guard.Check(r.full, r.session, path)
}
