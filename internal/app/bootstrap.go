package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/provider"
	"github.com/wedding-candy/internal/router"
	"github.com/wedding-candy/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	// 最先注册、最后停止，保证 HTTP 与 worker 退出后再释放连接
	services := []Service{resourceService{container: container}}

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 初始化 Worker 服务
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(cfg, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else {
			// 未启用队列时仍需自动备份与会话清理
			services = append(services, worker.NewMaintenanceService(cfg, consumer))
		}
	}

	if len(services) == 1 {
		return nil, fmt.Errorf("no services initialized for mode %q", mode)
	}

	return NewRunner(services...), nil
}

type resourceService struct {
	container *provider.Container
}

func (resourceService) Name() string { return "resources" }

func (resourceService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s resourceService) Stop(context.Context) error {
	return s.container.Close()
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode, "services", runner.Names())
	return RunWithOptions(runner, opts)
}
