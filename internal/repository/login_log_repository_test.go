package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupLoginLogRepositoryTest(t *testing.T) *GormLoginLogRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.LoginLog{}); err != nil {
		t.Fatalf("migrate login log failed: %v", err)
	}
	return NewLoginLogRepository(db)
}

func seedLoginLogs(t *testing.T, repo *GormLoginLogRepository, now time.Time) {
	t.Helper()
	logs := []models.LoginLog{
		{UserID: 1, Username: "alice", Status: constants.LoginLogStatusSuccess, ClientIP: "10.0.0.1", LoginSource: constants.LoginSourceAdmin, CreatedAt: now.Add(-3 * time.Hour)},
		{Username: "alice", Status: constants.LoginLogStatusFailed, FailReason: constants.LoginLogFailReasonInvalidCredentials, ClientIP: "10.0.0.1", LoginSource: constants.LoginSourceAdmin, CreatedAt: now.Add(-2 * time.Minute)},
		{Username: "alice", Status: constants.LoginLogStatusFailed, FailReason: constants.LoginLogFailReasonInvalidCredentials, ClientIP: "10.0.0.2", LoginSource: constants.LoginSourceClient, CreatedAt: now.Add(-1 * time.Minute)},
		{UserID: 2, Username: "bob", Status: constants.LoginLogStatusSuccess, ClientIP: "10.0.0.3", LoginSource: constants.LoginSourceClient, CreatedAt: now},
	}
	for i := range logs {
		if err := repo.Create(&logs[i]); err != nil {
			t.Fatalf("create login log failed: %v", err)
		}
	}
}

func TestLoginLogListFilters(t *testing.T) {
	repo := setupLoginLogRepositoryTest(t)
	now := time.Now()
	seedLoginLogs(t, repo, now)

	logs, total, err := repo.List(LoginLogListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 4 || len(logs) != 2 {
		t.Fatalf("page want total=4 len=2 got total=%d len=%d", total, len(logs))
	}
	if logs[0].Username != "bob" {
		t.Fatalf("list should be ordered by id desc, got %s first", logs[0].Username)
	}

	_, total, err = repo.List(LoginLogListFilter{Username: "alice", Status: constants.LoginLogStatusFailed})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("alice failures want 2 got %d", total)
	}

	_, total, err = repo.List(LoginLogListFilter{LoginSource: constants.LoginSourceClient, Keyword: "10.0.0"})
	if err != nil {
		t.Fatalf("keyword list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("client keyword matches want 2 got %d", total)
	}

	from := now.Add(-time.Hour)
	_, total, err = repo.List(LoginLogListFilter{CreatedFrom: &from})
	if err != nil {
		t.Fatalf("time range list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("recent logs want 3 got %d", total)
	}
}

func TestLoginLogCountFailedSince(t *testing.T) {
	repo := setupLoginLogRepositoryTest(t)
	now := time.Now()
	seedLoginLogs(t, repo, now)

	count, err := repo.CountFailedSince("alice", "10.0.0.1", now.Add(-10*time.Minute))
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("failures for alice@10.0.0.1 want 1 got %d", count)
	}
	count, _ = repo.CountFailedSince("alice", "", now.Add(-10*time.Minute))
	if count != 2 {
		t.Fatalf("failures for alice want 2 got %d", count)
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct{ page, size, wantPage, wantSize int }{
		{0, 0, 1, DefaultPageSize},
		{-3, 10, 1, 10},
		{2, MaxPageSize + 1, 2, MaxPageSize},
		{4, 50, 4, 50},
	}
	for _, tc := range cases {
		page, size := NormalizePage(tc.page, tc.size)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("NormalizePage(%d,%d) want %d,%d got %d,%d", tc.page, tc.size, tc.wantPage, tc.wantSize, page, size)
		}
	}
}

func TestLoginLogListClampsOutOfRangePage(t *testing.T) {
	repo := setupLoginLogRepositoryTest(t)
	seedLoginLogs(t, repo, time.Now())

	logs, total, err := repo.List(LoginLogListFilter{Page: -1, PageSize: 3})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 4 || len(logs) != 3 || logs[0].Username != "bob" {
		t.Fatalf("negative page should read first page, got total=%d len=%d", total, len(logs))
	}
}
