package worker

import (
	"context"
	"errors"
	"time"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	interval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
		interval: maintenanceInterval(cfg.Backup),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go RunMaintenanceLoop(ctx, s.consumer, s.interval)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// RunMaintenanceLoop 周期执行自动备份检查与过期会话清理，ctx 结束时退出
func RunMaintenanceLoop(ctx context.Context, consumer *Consumer, interval time.Duration) {
	if consumer == nil || consumer.Container == nil {
		return
	}
	if interval <= 0 {
		interval = time.Duration(constants.BackupCheckIntervalMinutes) * time.Minute
	}
	consumer.RunMaintenance()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			consumer.RunMaintenance()
		}
	}
}

// RunMaintenance 执行一次维护任务
func (c *Consumer) RunMaintenance() {
	if c == nil || c.Container == nil {
		return
	}
	if c.BackupService != nil {
		ran, err := c.BackupService.RunAutoBackup()
		if err != nil {
			logger.Warnw("worker_auto_backup_failed", "error", err)
		} else if ran {
			logger.Infow("worker_auto_backup_done")
		}
	}
	if c.AuthService != nil {
		purged, err := c.AuthService.PurgeExpiredSessions()
		if err != nil {
			logger.Warnw("worker_session_purge_failed", "error", err)
		} else if purged > 0 {
			logger.Debugw("worker_session_purged", "count", purged)
		}
	}
}

func maintenanceInterval(cfg config.BackupConfig) time.Duration {
	minutes := cfg.CheckIntervalMinutes
	if minutes <= 0 {
		minutes = constants.BackupCheckIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// MaintenanceService 队列未启用时单独运行的维护服务
type MaintenanceService struct {
	consumer *Consumer
	interval time.Duration
}

// NewMaintenanceService 创建维护服务
func NewMaintenanceService(cfg *config.Config, consumer *Consumer) *MaintenanceService {
	interval := time.Duration(constants.BackupCheckIntervalMinutes) * time.Minute
	if cfg != nil {
		interval = maintenanceInterval(cfg.Backup)
	}
	return &MaintenanceService{consumer: consumer, interval: interval}
}

// Name 服务名称
func (s *MaintenanceService) Name() string {
	return "maintenance"
}

// Start 运行维护循环直到 ctx 结束
func (s *MaintenanceService) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("maintenance not initialized")
	}
	RunMaintenanceLoop(ctx, s.consumer, s.interval)
	return nil
}

// Stop 停止服务
func (s *MaintenanceService) Stop(context.Context) error {
	return nil
}
