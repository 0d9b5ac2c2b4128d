package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/points-admin/console/internal/routes"
	"github.com/points-admin/console/internal/store"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestCanViewWithRolePage(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantPage("agent", "/system/agent"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetSessionRoles(1, []string{"agent"}); err != nil {
		t.Fatalf("set session roles failed: %v", err)
	}

	allow, err := svc.CanView(1, "/system/agent")
	if err != nil {
		t.Fatalf("can view allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.CanView(1, "/settings/frontend")
	if err != nil {
		t.Fatalf("can view deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetSessionRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantPage("agent", "/system/agent"); err != nil {
		t.Fatalf("grant agent policy failed: %v", err)
	}
	if err := svc.GrantPage("editor", "/settings/announcement"); err != nil {
		t.Fatalf("grant editor policy failed: %v", err)
	}

	if err := svc.SetSessionRoles(2, []string{"agent"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.UserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "agent" {
		t.Fatalf("roles want [agent], got=%v", roles)
	}

	if err := svc.SetSessionRoles(2, []string{"editor"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	allow, err := svc.CanView(2, "/system/agent")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}
	allow, err = svc.CanView(2, "/settings/announcement")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestPagePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/points/info", want: "/points/info"},
		{in: "points/usage/", want: "/points/usage"},
		{in: "//settings//frontend", want: "/settings/frontend"},
		{in: "/points/*", want: "/points/*"},
		{in: "/*", want: "/*"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := PagePath(item.in)
		if got != item.want {
			t.Fatalf("page path failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestRoleSubject(t *testing.T) {
	if got, err := RoleSubject(" super  agent "); err != nil || got != "role:super_agent" {
		t.Fatalf("role subject want role:super_agent got %q err=%v", got, err)
	}
	if got, _ := RoleSubject("role:admin"); got != "role:admin" {
		t.Fatalf("prefixed role should stay, got %q", got)
	}
	if _, err := RoleSubject("  "); err == nil {
		t.Fatalf("empty role should fail")
	}
	if _, err := RoleSubject("__console__"); err == nil {
		t.Fatalf("reserved role should fail")
	}
}

func TestRevokePage(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantPage("editor", "/settings/announcement"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.SetSessionRoles(4, []string{"editor"}); err != nil {
		t.Fatalf("set session roles failed: %v", err)
	}
	if err := svc.RevokePage("editor", "settings/announcement/"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allow, err := svc.CanView(4, "/settings/announcement")
	if err != nil {
		t.Fatalf("can view failed: %v", err)
	}
	if allow {
		t.Fatalf("revoked page should be denied")
	}
	pages, err := svc.PagesOf("editor")
	if err != nil {
		t.Fatalf("pages of failed: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("pages want empty got %v", pages)
	}
}

func TestNilServiceUnavailable(t *testing.T) {
	var svc *Service
	if _, err := svc.CanView(1, "/points/info"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable got %v", err)
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	roles, err := svc.Roles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{"admin": true, "agent": true, "member": true}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	if err := svc.SetSessionRoles(3, []string{"agent"}); err != nil {
		t.Fatalf("set session roles failed: %v", err)
	}
	allow, err := svc.CanView(3, "/points/usage")
	if err != nil {
		t.Fatalf("enforce inherited member failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected inherited member permission")
	}
	allow, err = svc.CanView(3, "/settings/frontend")
	if err != nil {
		t.Fatalf("enforce settings failed: %v", err)
	}
	if allow {
		t.Fatalf("agent must not view settings")
	}
}

func TestSyncRoutesReplacesViewPolicies(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantPage("stale", "/old/page"); err != nil {
		t.Fatalf("grant stale policy failed: %v", err)
	}
	if err := svc.SyncRoutes(routes.Builtin().Flatten()); err != nil {
		t.Fatalf("sync routes failed: %v", err)
	}

	stale, err := svc.PagesOf("stale")
	if err != nil {
		t.Fatalf("get stale policies failed: %v", err)
	}
	if len(stale) != 0 {
		t.Fatalf("stale policies should be removed, got %v", stale)
	}
	admin, err := svc.PagesOf("admin")
	if err != nil {
		t.Fatalf("get admin policies failed: %v", err)
	}
	found := false
	for _, p := range admin {
		if p.Page == "/settings/frontend" && p.Action == ActionView {
			found = true
		}
	}
	if !found {
		t.Fatalf("admin view policy for /settings/frontend missing: %v", admin)
	}
}

func TestSyncRoutesKeepsBuiltinPages(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.SyncRoutes(routes.Builtin().Flatten()); err != nil {
		t.Fatalf("sync routes failed: %v", err)
	}
	if err := svc.SetSessionRoles(5, []string{"agent"}); err != nil {
		t.Fatalf("set session roles failed: %v", err)
	}
	allow, err := svc.CanView(5, "/system/agent")
	if err != nil {
		t.Fatalf("can view failed: %v", err)
	}
	if !allow {
		t.Fatalf("builtin agent page should survive route sync")
	}
}

func TestGuardCheck(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	reg := routes.Builtin().Merge(routes.Node{
		Name:      "登录",
		Path:      "/login",
		Component: "/login",
		IsHidden:  true,
		Meta:      routes.Meta{Title: "登录", RequireAuth: routes.Bool(false)},
	})
	if err := svc.SyncRoutes(reg.Flatten()); err != nil {
		t.Fatalf("sync routes failed: %v", err)
	}
	if err := svc.SetSessionRoles(10, []string{"admin"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}
	if err := svc.SetSessionRoles(11, []string{"agent"}); err != nil {
		t.Fatalf("set agent roles failed: %v", err)
	}
	guard := NewGuard(svc)

	cases := []struct {
		name string
		sess *store.Session
		path string
		want Decision
	}{
		{name: "public login without session", sess: nil, path: "/login", want: Allow},
		{name: "protected without session", sess: nil, path: "/points/info", want: RedirectLogin},
		{name: "unknown path", sess: &store.Session{UserID: 11}, path: "/nope", want: NotFound},
		{name: "no roles declared", sess: &store.Session{UserID: 11, Roles: []string{"agent"}}, path: "/points/usage", want: Allow},
		{name: "role restricted forbidden", sess: &store.Session{UserID: 11, Roles: []string{"agent"}}, path: "/settings/frontend", want: Forbidden},
		{name: "role restricted allowed", sess: &store.Session{UserID: 10, Roles: []string{"admin"}}, path: "/settings/frontend", want: Allow},
		{name: "superuser bypass", sess: &store.Session{UserID: 99, IsSuperuser: true}, path: "/settings/announcement", want: Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := guard.Check(reg, tc.sess, tc.path)
			if err != nil {
				t.Fatalf("check failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("decision want %s got %s", tc.want, got)
			}
		})
	}
}

func TestGuardWithoutServiceFallsBackToSessionRoles(t *testing.T) {
	var guard *Guard
	reg := routes.Builtin()
	got, _ := guard.Check(reg, &store.Session{Roles: []string{"admin"}}, "/settings/frontend")
	if got != Allow {
		t.Fatalf("decision want allow got %s", got)
	}
	got, _ = guard.Check(reg, &store.Session{Roles: []string{"agent"}}, "/settings/frontend")
	if got != Forbidden {
		t.Fatalf("decision want forbidden got %s", got)
	}
}
