package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/points-admin/console/internal/app"
	"github.com/points-admin/console/internal/config"
	"github.com/points-admin/console/internal/i18n"
	"github.com/points-admin/console/internal/logger"
	"github.com/points-admin/console/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "", "配置文件路径，默认在 . 与 ./config 下查找 config.yml")
	flag.Parse()

	printStartupBanner()

	// 加载配置
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	i18n.SetDefault(cfg.I18n.DefaultLocale)

	if cfg.Server.Mode == "release" {
		if !cfg.Session.Secure {
			stdLog.Printf("警告: session.secure 未开启，生产环境建议仅通过 HTTPS 下发会话 cookie")
		}
		if strings.HasPrefix(strings.TrimSpace(cfg.Backend.BaseURL), "http://127.0.0.1") {
			stdLog.Printf("警告: backend.base_url 仍为本地默认地址: %s", cfg.Backend.BaseURL)
		}
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database, cfg.Server.Mode == "debug"); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║            Points Admin Console 启动中               ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "  ____       _       _              _       _           _       " + ansiReset)
	fmt.Println(ansiCyan + " |  _ \\ ___ (_)_ __ | |_ ___       / \\   __| |_ __ ___ (_)_ __  " + ansiReset)
	fmt.Println(ansiCyan + " | |_) / _ \\| | '_ \\| __/ __|     / _ \\ / _` | '_ ` _ \\| | '_ \\ " + ansiReset)
	fmt.Println(ansiCyan + " |  __/ (_) | | | | | |_\\__ \\    / ___ \\ (_| | | | | | | | | | |" + ansiReset)
	fmt.Println(ansiCyan + " |_|   \\___/|_|_| |_|\\__|___/   /_/   \\_\\__,_|_| |_| |_|_|_| |_|" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "BFF console for the points admin backend" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
