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

// Runner 服务运行器，任一服务退出即触发整体停止
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器，忽略 nil 服务
func NewRunner(services ...Service) *Runner {
	kept := make([]Service, 0, len(services))
	for _, svc := range services {
		if svc != nil {
			kept = append(kept, svc)
		}
	}
	return &Runner{services: kept}
}

// Names 返回已注册的服务名
func (r *Runner) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.services))
	for _, svc := range r.services {
		names = append(names, svc.Name())
	}
	return names
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

type serviceExit struct {
	name string
	err  error
}

// Run 启动全部服务，等待信号或首个服务退出后统一停止
// 停止阶段的错误会与运行错误合并返回
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, logger *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exits := make(chan serviceExit, len(r.services))
	for _, svc := range r.services {
		go func(svc Service) {
			logger.Infow("service_start", "service", svc.Name())
			exits <- serviceExit{name: svc.Name(), err: svc.Start(ctx)}
		}(svc)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Infow("service_shutdown_signal")
	case exit := <-exits:
		logger.Infow("service_exit", "service", exit.name, "error", exit.err)
		if exit.err != nil {
			runErr = fmt.Errorf("%s: %w", exit.name, exit.err)
		}
	}
	cancel()

	return errors.Join(runErr, r.stopAll(stopTimeout, logger))
}

// stopAll 按注册的逆序停止，共用一个超时
func (r *Runner) stopAll(timeout time.Duration, logger *zap.SugaredLogger) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), timeout)
	defer stopCancel()

	began := time.Now()
	var errs []error
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if err := svc.Stop(stopCtx); err != nil {
			logger.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
			errs = append(errs, fmt.Errorf("stop %s: %w", svc.Name(), err))
		}
	}
	logger.Infow("service_stopped", "count", len(r.services), "elapsed", time.Since(began))
	return errors.Join(errs...)
}
