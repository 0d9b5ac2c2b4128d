package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/points-admin/console/internal/config"
	applog "github.com/points-admin/console/internal/logger"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector 按驱动名选择 gorm 方言
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// InitDB 打开控制台数据库；SQL 日志写入应用日志，debug 时输出全部语句
func InitDB(cfg config.DatabaseConfig, debug bool) error {
	dialector, err := Dialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(applog.StdLogger(), logger.Config{
			SlowThreshold:             time.Duration(cfg.SlowQueryMillis) * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return fmt.Errorf("open %s database failed: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pool := cfg.Pool
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
	DB = db
	return nil
}

// AutoMigrate 迁移控制台自有的表，casbin_rule 由授权适配器维护
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}
	return DB.AutoMigrate(&LoginLog{})
}
