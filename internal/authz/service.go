package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/points-admin/console/internal/routes"
	"gorm.io/gorm"
)

const (
	casbinTableName = "casbin_rule"
	userSubjectFmt  = "user:%d"
	rolePrefix      = "role:"
	// 所有控制台角色都挂在该锚点下，用于枚举角色
	roleRegistry = "role:__console__"
)

// ActionView 页面访问动作
const ActionView = "VIEW"

// actionAll 通配动作，仅预置的管理员使用
const actionAll = "*"

// ErrUnavailable 授权服务未初始化
var ErrUnavailable = errors.New("authz service unavailable")

const pageRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Policy 角色可访问的页面
type Policy struct {
	Role   string `json:"role"`
	Page   string `json:"page"`
	Action string `json:"action"`
}

// Service 页面访问授权
// 角色到页面的策略与用户到角色的关系都存放在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(pageRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// CanView 判断后台用户能否访问页面
func (s *Service) CanView(userID int64, page string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(SubjectForUser(userID), PagePath(page), ActionView)
}

// ensureRole 登记角色，返回带前缀的主体名
func (s *Service) ensureRole(role string) (string, error) {
	subject, err := RoleSubject(role)
	if err != nil {
		return "", err
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, roleRegistry); err != nil {
		return "", fmt.Errorf("register role %s failed: %w", subject, err)
	}
	return subject, nil
}

// Roles 列出已登记的角色名（不含前缀）
func (s *Service) Roles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 1, roleRegistry)
	if err != nil {
		return nil, fmt.Errorf("list roles failed: %w", err)
	}
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) > 0 {
			names = append(names, strings.TrimPrefix(rule[0], rolePrefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

// GrantPage 允许角色访问页面，页面支持 keyMatch2 通配
func (s *Service) GrantPage(role, page string) error {
	return s.grant(role, page, ActionView)
}

func (s *Service) grant(role, page, action string) error {
	if err := s.ready(); err != nil {
		return err
	}
	subject, err := s.ensureRole(role)
	if err != nil {
		return err
	}
	if _, err := s.enforcer.AddPolicy(subject, PagePath(page), action); err != nil {
		return fmt.Errorf("grant %s on %s failed: %w", subject, page, err)
	}
	return nil
}

// RevokePage 撤销角色对页面的访问
func (s *Service) RevokePage(role, page string) error {
	if err := s.ready(); err != nil {
		return err
	}
	subject, err := RoleSubject(role)
	if err != nil {
		return err
	}
	if _, err := s.enforcer.RemovePolicy(subject, PagePath(page), ActionView); err != nil {
		return fmt.Errorf("revoke %s on %s failed: %w", subject, page, err)
	}
	return nil
}

// PagesOf 查询角色直接拥有的页面策略
func (s *Service) PagesOf(role string) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	subject, err := RoleSubject(role)
	if err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("list pages of %s failed: %w", subject, err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Role:   strings.TrimPrefix(rule[0], rolePrefix),
			Page:   rule[1],
			Action: rule[2],
		})
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Page < policies[j].Page })
	return policies, nil
}

// SetSessionRoles 以登录会话同步到的角色覆盖用户的角色关系
func (s *Service) SetSessionRoles(userID int64, roles []string) error {
	if userID <= 0 {
		return fmt.Errorf("user id is required")
	}
	if err := s.ready(); err != nil {
		return err
	}
	subject := SubjectForUser(userID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear roles of %s failed: %w", subject, err)
	}
	for _, role := range roles {
		roleSubject, err := s.ensureRole(role)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, roleSubject); err != nil {
			return fmt.Errorf("assign %s to %s failed: %w", roleSubject, subject, err)
		}
	}
	return nil
}

// UserRoles 查询用户当前绑定的角色名
func (s *Service) UserRoles(userID int64) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	roles, err := s.enforcer.GetRolesForUser(SubjectForUser(userID))
	if err != nil {
		return nil, fmt.Errorf("get roles of user %d failed: %w", userID, err)
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, strings.TrimPrefix(role, rolePrefix))
	}
	sort.Strings(names)
	return names, nil
}

// SyncRoutes 以路由表重建页面策略：声明了角色的页面为每个角色生成一条 VIEW 策略
// 通配策略与预置角色的页面保留不动
func (s *Service) SyncRoutes(entries []routes.RouteEntry) error {
	if err := s.ready(); err != nil {
		return err
	}
	existing, err := s.enforcer.GetFilteredPolicy(2, ActionView)
	if err != nil {
		return fmt.Errorf("list view policies failed: %w", err)
	}
	seeded := builtinPages()
	for _, rule := range existing {
		if len(rule) < 3 || strings.HasSuffix(rule[1], "*") {
			continue
		}
		if _, ok := seeded[rule[0]+" "+rule[1]]; ok {
			continue
		}
		if _, err := s.enforcer.RemovePolicy(rule[0], rule[1], rule[2]); err != nil {
			return fmt.Errorf("remove view policy failed: %w", err)
		}
	}
	for _, entry := range entries {
		if entry.Public {
			continue
		}
		for _, role := range entry.Roles {
			if err := s.GrantPage(role, entry.Path); err != nil {
				return err
			}
		}
	}
	return nil
}

// SubjectForUser 后台用户的 casbin 主体
func SubjectForUser(userID int64) string {
	return fmt.Sprintf(userSubjectFmt, userID)
}

// RoleSubject 角色名转为 casbin 主体，空白替换为下划线
func RoleSubject(role string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(role), rolePrefix)
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		return "", fmt.Errorf("role is required")
	}
	subject := rolePrefix + name
	if subject == roleRegistry {
		return "", fmt.Errorf("role %q is reserved", name)
	}
	return subject, nil
}

// PagePath 按路由表的规则归一化页面路径，保留末尾通配
func PagePath(page string) string {
	page = strings.TrimSpace(page)
	if strings.HasSuffix(page, "/*") {
		return strings.TrimRight(routes.EffectivePath("/", strings.TrimSuffix(page, "/*")), "/") + "/*"
	}
	return routes.EffectivePath("/", page)
}
