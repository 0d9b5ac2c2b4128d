package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/cache"
	"github.com/points-admin/console/internal/transport"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyToken 登录令牌为空
	ErrEmptyToken = errors.New("empty access token")
)

const sessionKeyPrefix = "session:"

// Session 控制台会话状态
type Session struct {
	ID          string     `json:"id"`
	Token       string     `json:"token"`
	UserID      int64      `json:"user_id"`
	Username    string     `json:"username"`
	Avatar      string     `json:"avatar,omitempty"`
	IsSuperuser bool       `json:"is_superuser"`
	Roles       []string   `json:"roles"`
	Menus       []api.Menu `json:"menus,omitempty"`
	APIs        []string   `json:"apis,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	SyncedAt    time.Time  `json:"synced_at"`
}

// Expired 是否已过期
func (s *Session) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}

// HasRole 是否拥有角色
func (s *Session) HasRole(role string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Can 是否拥有接口权限，超级用户全部放行
func (s *Session) Can(permission string) bool {
	if s == nil {
		return false
	}
	if s.IsSuperuser {
		return true
	}
	permission = strings.ToLower(strings.TrimSpace(permission))
	for _, p := range s.APIs {
		if strings.ToLower(p) == permission {
			return true
		}
	}
	return false
}

// Store 会话存储
type Store struct {
	cache cache.Store
	ttl   time.Duration
	now   func() time.Time
}

// New 创建会话存储
func New(c cache.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{cache: c, ttl: ttl, now: time.Now}
}

// TTL 默认会话时长
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Open 以登录令牌新建会话，过期时间取默认时长与令牌 exp 的较早者
func (s *Store) Open(ctx context.Context, token string, info api.UserInfo) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	if exp, ok := TokenExpiry(token); ok && exp.Before(expiresAt) {
		expiresAt = exp
	}
	sess := &Session{
		ID:          uuid.NewString(),
		Token:       token,
		UserID:      info.ID,
		Username:    info.Username,
		Avatar:      info.Avatar,
		IsSuperuser: info.IsSuperuser,
		Roles:       info.RoleNames(),
		ExpiresAt:   expiresAt,
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save 写入会话
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrSessionNotFound
	}
	ttl := s.remaining(sess)
	if ttl <= 0 {
		return ErrSessionNotFound
	}
	return s.cache.SetJSON(ctx, sessionKeyPrefix+sess.ID, sess, ttl)
}

// Load 读取会话，过期视为不存在
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrSessionNotFound
	}
	var sess Session
	hit, err := s.cache.GetJSON(ctx, sessionKeyPrefix+id, &sess)
	if err != nil {
		return nil, err
	}
	if !hit || sess.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Delete 删除会话
func (s *Store) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.cache.Del(ctx, sessionKeyPrefix+id)
}

// Touch 刷新缓存过期时间，不超过令牌本身的过期时间
func (s *Store) Touch(ctx context.Context, sess *Session) error {
	if sess == nil {
		return ErrSessionNotFound
	}
	ttl := s.remaining(sess)
	if ttl <= 0 {
		return ErrSessionNotFound
	}
	return s.cache.Expire(ctx, sessionKeyPrefix+sess.ID, ttl)
}

func (s *Store) remaining(sess *Session) time.Duration {
	if sess.ExpiresAt.IsZero() {
		return s.ttl
	}
	return sess.ExpiresAt.Sub(s.now())
}

type sessionIDKey struct{}

// WithSessionID 将会话 ID 绑定到上下文
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFromContext 读取上下文中的会话 ID
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}

// Token 实现 transport.TokenSource：上下文显式令牌优先，其次按会话 ID 读取
func (s *Store) Token(ctx context.Context) (string, error) {
	if token := transport.TokenFromContext(ctx); token != "" {
		return token, nil
	}
	id := SessionIDFromContext(ctx)
	if id == "" {
		return "", nil
	}
	sess, err := s.Load(ctx, id)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// TokenClaims 后台签发令牌中的用户声明
type TokenClaims struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	IsSuperuser bool   `json:"is_superuser"`
	jwt.RegisteredClaims
}

// ParseTokenClaims 读取令牌声明，不校验签名；签名由管理后台负责
func ParseTokenClaims(token string) (*TokenClaims, bool) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// TokenExpiry 读取令牌 exp
func TokenExpiry(token string) (time.Time, bool) {
	claims, ok := ParseTokenClaims(token)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

var _ transport.TokenSource = (*Store)(nil)
