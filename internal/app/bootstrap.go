package app

import (
	"context"
	"errors"

	"github.com/points-admin/console/internal/config"
	"github.com/points-admin/console/internal/provider"
	"github.com/points-admin/console/internal/router"
)

// BuildRunner 构建服务运行器：容器资源先于 HTTP 服务注册，停止时逆序释放
func BuildRunner(cfg *config.Config) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	engine := router.SetupRouter(cfg, container)
	return NewRunner(
		NewCloserService("container", container.Close),
		NewHTTPService(cfg.Server.Addr(), engine),
	), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"backend", opts.Config.Backend.BaseURL,
		"redis", opts.Config.Redis.Enabled,
	)
	return RunWithOptions(runner, opts)
}

// CloserService 只在停止时释放资源的服务
type CloserService struct {
	name  string
	close func(ctx context.Context) error
}

// NewCloserService 创建资源释放服务
func NewCloserService(name string, closeFn func(ctx context.Context) error) *CloserService {
	return &CloserService{name: name, close: closeFn}
}

// Name 服务名称
func (s *CloserService) Name() string { return s.name }

// Start 阻塞直到上下文结束
func (s *CloserService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Stop 释放资源
func (s *CloserService) Stop(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
