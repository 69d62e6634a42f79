package provider

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wedding-candy/internal/authz"
	"github.com/wedding-candy/internal/cache"
	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/queue"
	"github.com/wedding-candy/internal/repository"
	"github.com/wedding-candy/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	SlotStore     repository.SlotStore
	RecipientRepo repository.RecipientRepository
	BackupRepo    repository.BackupRepository
	AuditRepo     repository.AdminAuditLogRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	CaptchaService    *service.CaptchaService
	FormValidator     *service.FormValidator
	RecipientService  *service.RecipientService
	BackupService     *service.BackupService
	ExportService     *service.ExportService
	StatisticsService *service.StatisticsService
	AuditService      *service.AuditService
	EmailService      *service.EmailService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

// Close 释放队列客户端与 Redis 连接
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close queue client: %w", err))
		}
	}
	if err := cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	return errors.Join(errs...)
}

// NewSlotStore 按配置选择槽位存储后端，并套上容量限制
func NewSlotStore(cfg config.StorageConfig) repository.SlotStore {
	var inner repository.SlotStore
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case constants.StorageDriverDatabase:
		if models.DB != nil {
			inner = repository.NewSlotRepository(models.DB, cfg.KeyPrefix)
		}
	case constants.StorageDriverRedis:
		if client := cache.Client(); client != nil {
			inner = repository.NewRedisSlotStore(client, cfg.KeyPrefix)
		}
	}
	if inner == nil {
		if driver != "" && driver != constants.StorageDriverMemory {
			logger.Warnw("provider_slot_store_fallback_memory", "driver", driver)
		}
		inner = repository.NewMemorySlotStore()
	}
	// 登录失败计数与会话不受容量限制，存储写满时管理员仍可登录清理
	return repository.NewQuotaSlotStore(inner, cfg.CapacityBytes, constants.SlotAdminPrefix)
}

func (c *Container) initRepositories() {
	c.SlotStore = NewSlotStore(c.Config.Storage)
	c.RecipientRepo = repository.NewRecipientRepository(c.SlotStore)
	c.BackupRepo = repository.NewBackupRepository(c.SlotStore)
	if models.DB != nil {
		c.AuditRepo = repository.NewAdminAuditLogRepository(models.DB)
	}
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	viewers := make([]string, 0, len(c.Config.Admin.Viewers))
	for _, viewer := range c.Config.Admin.Viewers {
		viewers = append(viewers, strings.TrimSpace(viewer.Username))
	}
	if err := c.AuthzService.SyncAccounts(c.Config.Admin.Username, viewers); err != nil {
		logger.Errorw("provider_sync_admin_roles_failed", "error", err)
		panic(err)
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.FormValidator = service.NewFormValidator()
	c.AuthService = service.NewAuthService(c.Config, c.SlotStore)
	c.RecipientService = service.NewRecipientService(c.RecipientRepo, c.BackupRepo, c.SlotStore, c.Config.Storage.CapacityBytes, c.QueueClient)
	c.BackupService = service.NewBackupService(c.Config.Backup, c.RecipientService, c.BackupRepo, c.AuthService, c.QueueClient)
	c.ExportService = service.NewExportService(c.RecipientService, c.BackupService, c.SlotStore, c.Config.Export.HistoryLimit)
	c.StatisticsService = service.NewStatisticsService(c.RecipientService)
	c.AuditService = service.NewAuditService(c.AuditRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
}
