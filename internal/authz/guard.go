package authz

import (
	"github.com/points-admin/console/internal/routes"
	"github.com/points-admin/console/internal/store"
)

// Decision 导航守卫判定结果
type Decision string

const (
	Allow         Decision = "allow"
	RedirectLogin Decision = "redirect_login"
	Forbidden     Decision = "forbidden"
	NotFound      Decision = "not_found"
)

// LoginPath 未登录时的跳转地址
const LoginPath = "/login"

// Guard 页面导航守卫
type Guard struct {
	svc *Service
}

// NewGuard 创建导航守卫
func NewGuard(svc *Service) *Guard {
	return &Guard{svc: svc}
}

// Service 返回授权服务
func (g *Guard) Service() *Service {
	if g == nil {
		return nil
	}
	return g.svc
}

// Check 判定会话能否进入路由表中的页面
// 公开页面直接放行；需要登录但无会话时跳转登录；超级用户与未声明角色的页面放行；其余按 casbin 策略判定
func (g *Guard) Check(reg *routes.Registry, sess *store.Session, path string) (Decision, error) {
	entry, ok := reg.Resolve(path)
	if !ok {
		return NotFound, nil
	}
	if entry.Public {
		return Allow, nil
	}
	if sess == nil {
		return RedirectLogin, nil
	}
	if sess.IsSuperuser || len(entry.Roles) == 0 {
		return Allow, nil
	}
	if g == nil || g.svc == nil {
		return decideByRoles(entry, sess), nil
	}
	allowed, err := g.svc.CanView(sess.UserID, entry.Path)
	if err != nil {
		return Forbidden, err
	}
	if allowed {
		return Allow, nil
	}
	return Forbidden, nil
}

func decideByRoles(entry routes.RouteEntry, sess *store.Session) Decision {
	for _, role := range entry.Roles {
		if sess.HasRole(role) {
			return Allow
		}
	}
	return Forbidden
}
