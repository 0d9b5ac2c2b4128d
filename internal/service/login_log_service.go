package service

import (
	"strings"
	"time"

	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/models"
	"github.com/points-admin/console/internal/repository"
)

// LoginLogService 控制台登录日志服务
type LoginLogService struct {
	repo repository.LoginLogRepository
}

// NewLoginLogService 创建登录日志服务
func NewLoginLogService(repo repository.LoginLogRepository) *LoginLogService {
	return &LoginLogService{repo: repo}
}

// RecordLoginInput 登录日志记录输入
type RecordLoginInput struct {
	UserID      int64
	Username    string
	Status      string
	FailReason  string
	ClientIP    string
	UserAgent   string
	LoginSource string
	RequestID   string
}

// Record 记录登录行为
func (s *LoginLogService) Record(input RecordLoginInput) error {
	if s == nil || s.repo == nil {
		return nil
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status != constants.LoginLogStatusSuccess {
		status = constants.LoginLogStatusFailed
	}

	failReason := strings.ToLower(strings.TrimSpace(input.FailReason))
	if status == constants.LoginLogStatusSuccess {
		failReason = ""
	} else if failReason == "" {
		failReason = constants.LoginLogFailReasonInternalError
	}

	source := strings.ToLower(strings.TrimSpace(input.LoginSource))
	if source == "" {
		source = constants.LoginSourceAdmin
	}

	return s.repo.Create(&models.LoginLog{
		UserID:      input.UserID,
		Username:    strings.TrimSpace(input.Username),
		Status:      status,
		FailReason:  failReason,
		ClientIP:    strings.TrimSpace(input.ClientIP),
		UserAgent:   strings.TrimSpace(input.UserAgent),
		LoginSource: source,
		RequestID:   strings.TrimSpace(input.RequestID),
		CreatedAt:   time.Now(),
	})
}

// List 分页查询登录日志
func (s *LoginLogService) List(filter repository.LoginLogListFilter) ([]models.LoginLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.LoginLog{}, 0, nil
	}
	filter.Page, filter.PageSize = repository.NormalizePage(filter.Page, filter.PageSize)
	return s.repo.List(filter)
}
