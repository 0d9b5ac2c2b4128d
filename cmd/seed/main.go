package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/points-admin/console/internal/authz"
	"github.com/points-admin/console/internal/config"
	"github.com/points-admin/console/internal/logger"
	"github.com/points-admin/console/internal/models"
	"github.com/points-admin/console/internal/routes"
)

// grantFlags 形如 role=/path 的额外授权
type grantFlags []string

func (g *grantFlags) String() string { return strings.Join(*g, ",") }

func (g *grantFlags) Set(value string) error {
	*g = append(*g, value)
	return nil
}

func main() {
	var (
		configFile string
		grants     grantFlags
		revokes    grantFlags
	)
	flag.StringVar(&configFile, "config", "", "配置文件路径")
	flag.Var(&grants, "grant", "额外授予页面访问，格式 role=/path，可重复")
	flag.Var(&revokes, "revoke", "撤销页面访问，格式 role=/path，可重复")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 连接数据库
	if err := models.InitDB(cfg.Database, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	svc, err := authz.NewService(models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init authz: %v", err)
	}

	// 内置角色与页面策略
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		stdLog.Fatalf("Failed to seed builtin roles: %v", err)
	}
	builtin := routes.Builtin()
	if err := builtin.Validate(); err != nil {
		stdLog.Fatalf("Builtin routes invalid: %v", err)
	}
	entries := builtin.Flatten()
	if err := svc.SyncRoutes(entries); err != nil {
		stdLog.Fatalf("Failed to sync route policies: %v", err)
	}
	fmt.Printf("Synced %d route entries\n", len(entries))

	for _, grant := range grants {
		role, page, ok := strings.Cut(grant, "=")
		if !ok {
			stdLog.Fatalf("Invalid grant %q, want role=/path", grant)
		}
		if err := svc.GrantPage(role, page); err != nil {
			stdLog.Fatalf("Failed to grant %s: %v", grant, err)
		}
		fmt.Printf("Granted %s %s %s\n", strings.TrimSpace(role), authz.ActionView, authz.PagePath(page))
	}
	for _, revoke := range revokes {
		role, page, ok := strings.Cut(revoke, "=")
		if !ok {
			stdLog.Fatalf("Invalid revoke %q, want role=/path", revoke)
		}
		if err := svc.RevokePage(role, page); err != nil {
			stdLog.Fatalf("Failed to revoke %s: %v", revoke, err)
		}
		fmt.Printf("Revoked %s %s %s\n", strings.TrimSpace(role), authz.ActionView, authz.PagePath(page))
	}

	roles, err := svc.Roles()
	if err != nil {
		stdLog.Fatalf("Failed to list roles: %v", err)
	}
	for _, role := range roles {
		policies, err := svc.PagesOf(role)
		if err != nil {
			stdLog.Fatalf("Failed to list pages of %s: %v", role, err)
		}
		fmt.Printf("%s\n", role)
		for _, p := range policies {
			fmt.Printf("  %-8s %s\n", p.Action, p.Page)
		}
	}

	fmt.Println("Seed data created successfully!")
}
