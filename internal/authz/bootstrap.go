package authz

import "fmt"

// RoleSeed 预置角色
type RoleSeed struct {
	Role     string
	Inherits []string
	Pages    []string
	// AllPages 为真时授予全部页面的全部动作
	AllPages bool
}

// BuiltinRoleSeeds admin 可访问全部页面；agent 在 member 的积分页面之外多一个代理管理页
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{Role: "admin", AllPages: true},
		{Role: "member", Pages: []string{"/points/*"}},
		{Role: "agent", Inherits: []string{"member"}, Pages: []string{"/system/agent"}},
	}
}

// BootstrapBuiltinRoles 写入预置角色、继承关系与页面策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		subject, err := s.ensureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentSubject, err := s.ensureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, parentSubject); err != nil {
				return fmt.Errorf("link %s to %s failed: %w", subject, parentSubject, err)
			}
		}
		if seed.AllPages {
			if err := s.grant(seed.Role, "/*", actionAll); err != nil {
				return err
			}
		}
		for _, page := range seed.Pages {
			if err := s.GrantPage(seed.Role, page); err != nil {
				return err
			}
		}
	}
	return nil
}

// builtinPages 预置角色的页面策略，键为 "主体 页面"
func builtinPages() map[string]struct{} {
	pages := make(map[string]struct{})
	for _, seed := range BuiltinRoleSeeds() {
		subject, err := RoleSubject(seed.Role)
		if err != nil {
			continue
		}
		for _, page := range seed.Pages {
			pages[subject+" "+PagePath(page)] = struct{}{}
		}
	}
	return pages
}
