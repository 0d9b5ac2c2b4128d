package repository

import (
	"time"

	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/models"

	"gorm.io/gorm"
)

// LoginLogListFilter 查询登录日志列表的过滤条件
type LoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      int64
	Username    string
	Keyword     string
	Status      string
	LoginSource string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// LoginLogRepository 登录日志数据访问接口
type LoginLogRepository interface {
	Create(log *models.LoginLog) error
	List(filter LoginLogListFilter) ([]models.LoginLog, int64, error)
	CountFailedSince(username, clientIP string, since time.Time) (int64, error)
}

// GormLoginLogRepository GORM 实现
type GormLoginLogRepository struct {
	db *gorm.DB
}

// NewLoginLogRepository 创建登录日志仓库
func NewLoginLogRepository(db *gorm.DB) *GormLoginLogRepository {
	return &GormLoginLogRepository{db: db}
}

// Create 创建登录日志
func (r *GormLoginLogRepository) Create(log *models.LoginLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// List 分页查询登录日志
func (r *GormLoginLogRepository) List(filter LoginLogListFilter) ([]models.LoginLog, int64, error) {
	query := r.db.Model(&models.LoginLog{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.Keyword != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"username", "client_ip"})
		query = query.Where("("+condition+")", repeatLikeArgs("%"+filter.Keyword+"%", argCount)...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.LoginSource != "" {
		query = query.Where("login_source = ?", filter.LoginSource)
	}
	if filter.ClientIP != "" {
		query = query.Where("client_ip = ?", filter.ClientIP)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var logs []models.LoginLog
	if err := query.Order("id desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// CountFailedSince 统计某用户名在某 IP 上自 since 以来的失败次数
func (r *GormLoginLogRepository) CountFailedSince(username, clientIP string, since time.Time) (int64, error) {
	query := r.db.Model(&models.LoginLog{}).
		Where("status = ?", constants.LoginLogStatusFailed).
		Where("created_at >= ?", since)
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if clientIP != "" {
		query = query.Where("client_ip = ?", clientIP)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
