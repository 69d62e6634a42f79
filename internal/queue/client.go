package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 备份等关键任务队列
	CriticalQueue = constants.QueueCritical
)

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueRecipientCreated 推送新领取记录通知任务
func (c *Client) EnqueueRecipientCreated(payload RecipientCreatedPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewRecipientCreatedTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)...)
}

// EnqueueBackupSnapshot 推送备份快照任务，dedupWindow 内的重复任务直接忽略
func (c *Client) EnqueueBackupSnapshot(payload BackupSnapshotPayload, dedupWindow time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewBackupSnapshotTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{asynq.Queue(CriticalQueue), asynq.MaxRetry(3)}
	if dedupWindow > 0 {
		options = append(options, asynq.Unique(dedupWindow))
	}
	return c.enqueue(task, options...)
}

// EnqueueBackupReminder 推送备份提醒任务，同一记录数的提醒未处理完前不重复入队
func (c *Client) EnqueueBackupReminder(payload BackupReminderPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewBackupReminderTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task,
		asynq.Queue(c.defaultQueue),
		asynq.TaskID(fmt.Sprintf("%s:%d", TaskBackupReminder, payload.Total)),
	)
}

func (c *Client) enqueue(task *asynq.Task, opts ...asynq.Option) error {
	_, err := c.client.Enqueue(task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, CriticalQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
