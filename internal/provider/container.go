package provider

import (
	"context"
	"fmt"

	"github.com/points-admin/console/internal/api"
	"github.com/points-admin/console/internal/authz"
	"github.com/points-admin/console/internal/cache"
	"github.com/points-admin/console/internal/config"
	"github.com/points-admin/console/internal/logger"
	"github.com/points-admin/console/internal/models"
	"github.com/points-admin/console/internal/repository"
	"github.com/points-admin/console/internal/routes"
	"github.com/points-admin/console/internal/service"
	"github.com/points-admin/console/internal/store"
	"github.com/points-admin/console/internal/transport"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// 基础设施
	Redis     *redis.Client
	Cache     cache.Store
	Sessions  *store.Store
	Transport *transport.HTTP
	APIClient *api.Client
	Routes    *routes.Registry

	// Repositories
	LoginLogRepo repository.LoginLogRepository

	// Services
	AuthzService    *authz.Service
	Guard           *authz.Guard
	AuthService     *service.AuthService
	LoginLogService *service.LoginLogService

	memory *cache.MemoryStore
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	c := &Container{
		Config: cfg,
		Routes: routes.Builtin(),
	}

	// 1. 基础设施
	if err := c.initInfra(); err != nil {
		return nil, err
	}

	// 2. Repositories
	c.LoginLogRepo = repository.NewLoginLogRepository(db)

	// 3. Services
	if err := c.initServices(db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initInfra() error {
	cfg := c.Config
	c.Redis = cache.NewRedisClient(&cfg.Redis)
	if c.Redis != nil {
		if err := c.Redis.Ping(context.Background()).Err(); err != nil {
			logger.Warnw("provider_redis_ping_failed", "addr", c.Redis.Options().Addr, "error", err)
		}
		c.Cache = cache.NewRedisStore(c.Redis, cfg.Redis.Prefix)
	} else {
		c.memory = cache.NewMemoryStore(cfg.Session.MemoryCapacity)
		c.Cache = c.memory
		logger.Infow("provider_session_memory_fallback", "capacity", cfg.Session.MemoryCapacity)
	}
	c.Sessions = store.New(c.Cache, cfg.Session.TTL())

	httpTransport, err := transport.New(cfg.Backend, c.Sessions, transport.WithLogger(logger.SW("component", "backend")))
	if err != nil {
		logger.Errorw("provider_init_backend_transport_failed", "base_url", cfg.Backend.BaseURL, "error", err)
		return err
	}
	c.Transport = httpTransport
	c.APIClient = api.NewClient(httpTransport)
	return nil
}

func (c *Container) initServices(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.Routes.Validate(); err != nil {
		logger.Errorw("provider_builtin_routes_invalid", "error", err)
		return err
	}
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	if err := c.AuthzService.SyncRoutes(c.Routes.Flatten()); err != nil {
		logger.Errorw("provider_sync_route_policies_failed", "error", err)
		return err
	}
	c.Guard = authz.NewGuard(c.AuthzService)

	c.LoginLogService = service.NewLoginLogService(c.LoginLogRepo)
	c.AuthService = service.NewAuthService(c.APIClient, c.Sessions, c.LoginLogService)
	if c.Redis == nil {
		// 无 Redis 时登录限流退化为按登录日志计数
		c.AuthService.WithLockout(c.LoginLogRepo, c.Config.Security.LoginRateLimit)
	}
	return nil
}

// Close 释放容器持有的连接
func (c *Container) Close(ctx context.Context) error {
	if c.Transport != nil {
		_ = c.Transport.Close(ctx)
	}
	if c.memory != nil {
		c.memory.Close()
	}
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
