package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/config"
	"github.com/points-admin/console/internal/constants"
	"github.com/points-admin/console/internal/logger"
	"github.com/points-admin/console/internal/repository"
	"github.com/points-admin/console/internal/store"
	"github.com/points-admin/console/internal/transport"
)

// AuthService 控制台认证服务，登录校验委托给管理后台
type AuthService struct {
	client   *api.Client
	sessions *store.Store
	logs     *LoginLogService
	attempts repository.LoginLogRepository
	limit    config.LoginRateLimitConfig
	now      func() time.Time
}

// NewAuthService 创建认证服务实例
func NewAuthService(client *api.Client, sessions *store.Store, logs *LoginLogService) *AuthService {
	return &AuthService{
		client:   client,
		sessions: sessions,
		logs:     logs,
		now:      time.Now,
	}
}

// WithLockout 基于登录日志的失败锁定，Redis 未启用时兜底
func (s *AuthService) WithLockout(repo repository.LoginLogRepository, limit config.LoginRateLimitConfig) *AuthService {
	s.attempts = repo
	s.limit = limit
	return s
}

// LoginInput 登录输入
type LoginInput struct {
	Source    string
	Username  string
	Password  string
	ClientIP  string
	UserAgent string
	RequestID string
}

// BackendRejectedError 后台返回的业务错误
type BackendRejectedError struct {
	Msg string
}

func (e *BackendRejectedError) Error() string {
	return fmt.Sprintf("backend rejected: %s", e.Msg)
}

func (e *BackendRejectedError) Unwrap() error {
	return ErrInvalidCredentials
}

// Login 转发登录并建立控制台会话
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*store.Session, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Source = strings.ToLower(strings.TrimSpace(input.Source))
	if input.Source == "" {
		input.Source = constants.LoginSourceAdmin
	}
	if input.Username == "" || input.Password == "" {
		s.recordFailure(input, constants.LoginLogFailReasonBadRequest)
		return nil, ErrInvalidLoginInput
	}
	if err := s.checkLockout(input); err != nil {
		return nil, err
	}

	creds := api.Credentials{Username: input.Username, Password: input.Password}
	var (
		resp *api.Response
		err  error
	)
	if input.Source == constants.LoginSourceClient {
		resp, err = s.client.ClientLogin(ctx, creds)
	} else {
		resp, err = s.client.Login(ctx, creds)
	}
	if err != nil {
		return nil, s.loginFailed(input, err)
	}

	var token api.AccessToken
	if err := resp.Decode(&token); err != nil {
		return nil, s.loginFailed(input, err)
	}
	if strings.TrimSpace(token.AccessToken) == "" {
		s.recordFailure(input, constants.LoginLogFailReasonBackendUnavailable)
		return nil, ErrBackendUnavailable
	}

	info := api.UserInfo{Username: input.Username}
	if token.Username != "" {
		info.Username = token.Username
	}
	if claims, ok := store.ParseTokenClaims(token.AccessToken); ok {
		info.ID = claims.UserID
		info.IsSuperuser = claims.IsSuperuser
	}

	sess, err := s.sessions.Open(ctx, token.AccessToken, info)
	if err != nil {
		s.recordFailure(input, constants.LoginLogFailReasonSessionFailed)
		logger.Warnw("console_session_open_failed", "username", input.Username, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrSessionFailed, err)
	}

	if err := s.logs.Record(RecordLoginInput{
		UserID:      sess.UserID,
		Username:    sess.Username,
		Status:      constants.LoginLogStatusSuccess,
		ClientIP:    input.ClientIP,
		UserAgent:   input.UserAgent,
		LoginSource: input.Source,
		RequestID:   input.RequestID,
	}); err != nil {
		logger.Warnw("console_login_log_record_failed", "username", sess.Username, "error", err)
	}
	return sess, nil
}

// Logout 删除控制台会话
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) checkLockout(input LoginInput) error {
	if s.attempts == nil || s.limit.MaxAttempts <= 0 || s.limit.WindowSeconds <= 0 {
		return nil
	}
	since := s.now().Add(-time.Duration(s.limit.WindowSeconds) * time.Second)
	count, err := s.attempts.CountFailedSince(input.Username, input.ClientIP, since)
	if err != nil {
		logger.Warnw("console_login_lockout_check_failed", "username", input.Username, "error", err)
		return nil
	}
	if count >= int64(s.limit.MaxAttempts) {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) loginFailed(input LoginInput, err error) error {
	if transport.IsRejected(err) {
		s.recordFailure(input, constants.LoginLogFailReasonInvalidCredentials)
		return &BackendRejectedError{Msg: transport.Message(err)}
	}
	s.recordFailure(input, constants.LoginLogFailReasonBackendUnavailable)
	logger.Warnw("console_login_backend_failed", "username", input.Username, "error", err)
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}

func (s *AuthService) recordFailure(input LoginInput, reason string) {
	if err := s.logs.Record(RecordLoginInput{
		Username:    input.Username,
		Status:      constants.LoginLogStatusFailed,
		FailReason:  reason,
		ClientIP:    input.ClientIP,
		UserAgent:   input.UserAgent,
		LoginSource: input.Source,
		RequestID:   input.RequestID,
	}); err != nil {
		logger.Warnw("console_login_log_record_failed", "username", input.Username, "error", err)
	}
}
