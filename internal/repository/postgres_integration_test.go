//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	_ = db.Migrator().DropTable(&models.LoginLog{})
	if err := db.AutoMigrate(&models.LoginLog{}); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(&models.LoginLog{})
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresLoginLogKeywordIsCaseInsensitive(t *testing.T) {
	repo := NewLoginLogRepository(setupPostgresIntegrationDB(t))
	if err := repo.Create(&models.LoginLog{
		Username:    "Alice",
		Status:      constants.LoginLogStatusFailed,
		ClientIP:    "10.1.0.1",
		LoginSource: constants.LoginSourceAdmin,
		CreatedAt:   time.Now(),
	}); err != nil {
		t.Fatalf("create login log failed: %v", err)
	}

	logs, total, err := repo.List(LoginLogListFilter{Keyword: "alice"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(logs) != 1 || logs[0].Username != "Alice" {
		t.Fatalf("ILIKE keyword should match Alice, got total=%d logs=%v", total, logs)
	}
}
