package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 服务接口
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 服务运行器
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}

	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// exit 服务退出结果
type exit struct {
	name string
	err  error
}

// Run 并发启动全部服务，任一服务退出或上下文结束后逆序停止
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, logger *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	for _, svc := range r.services {
		if svc == nil {
			return errors.New("service is nil")
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exits := make(chan exit, len(r.services))
	for _, svc := range r.services {
		go func(svc Service) {
			logger.Infow("service_start", "service", svc.Name())
			exits <- exit{name: svc.Name(), err: svc.Start(ctx)}
		}(svc)
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case e := <-exits:
		logger.Infow("service_exit", "service", e.name, "error", e.err)
		if e.err != nil {
			runErr = fmt.Errorf("service %s: %w", e.name, e.err)
		}
	}
	cancel()

	r.stopAll(stopTimeout, logger)
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// stopAll 逆序停止，先停对外服务再释放底层资源
func (r *Runner) stopAll(timeout time.Duration, logger *zap.SugaredLogger) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		start := time.Now()
		if err := svc.Stop(ctx); err != nil {
			logger.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
			continue
		}
		logger.Debugw("service_stopped", "service", svc.Name(), "elapsed", time.Since(start))
	}
}
