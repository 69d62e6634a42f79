package worker

import (
	"context"
	"strings"

	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/provider"
	"github.com/wedding-candy/internal/queue"
	"github.com/wedding-candy/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskBackupSnapshot, c.handleBackupSnapshot)
	mux.HandleFunc(queue.TaskBackupReminder, c.handleBackupReminder)
	mux.HandleFunc(queue.TaskRecipientCreated, c.handleRecipientCreated)
}

func (c *Consumer) handleBackupSnapshot(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_backup_snapshot_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodePayload[queue.BackupSnapshotPayload](task)
	if err != nil {
		logger.Warnw("worker_backup_snapshot_unmarshal_failed", "error", err)
		return err
	}
	if c.BackupService == nil {
		logger.Warnw("worker_backup_snapshot_skip_service_nil", "reason", payload.Reason)
		return nil
	}
	snapshot, err := c.BackupService.Backup()
	if err != nil {
		logger.Warnw("worker_backup_snapshot_failed", "reason", payload.Reason, "error", err)
		return err
	}
	if strings.TrimSpace(payload.Reason) == "manual" {
		if err := c.BackupService.MarkReminderShown(); err != nil {
			logger.Warnw("worker_backup_reminder_mark_failed", "error", err)
		}
	}
	logger.Infow("worker_backup_snapshot_done", "reason", payload.Reason, "total", snapshot.Total)
	return nil
}

func (c *Consumer) handleBackupReminder(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_backup_reminder_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodePayload[queue.BackupReminderPayload](task)
	if err != nil {
		logger.Warnw("worker_backup_reminder_unmarshal_failed", "error", err)
		return err
	}
	logger.Warnw("worker_backup_reminder", "total", payload.Total)
	if !c.EmailService.Enabled() {
		return nil
	}
	input := service.BackupReminderInput{Total: payload.Total}
	if c.BackupService != nil {
		if status, err := c.BackupService.Status(); err == nil {
			input.LastBackupTime = status.LastBackupTime
		}
	}
	if err := c.EmailService.SendBackupReminder(input); err != nil {
		logger.Warnw("worker_backup_reminder_email_failed", "total", payload.Total, "error", err)
		return nil
	}
	// 邮件送达即视为已提醒
	if c.BackupService != nil {
		if err := c.BackupService.MarkReminderShown(); err != nil {
			logger.Warnw("worker_backup_reminder_mark_failed", "error", err)
		}
	}
	return nil
}

func (c *Consumer) handleRecipientCreated(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_recipient_created_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodePayload[queue.RecipientCreatedPayload](task)
	if err != nil {
		logger.Warnw("worker_recipient_created_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.RecipientID) == "" {
		logger.Debugw("worker_recipient_created_skip_invalid_payload", "recipient_id", payload.RecipientID)
		return nil
	}
	logger.Infow("worker_recipient_created", "recipient_id", payload.RecipientID, "total", payload.Total)
	if c.BackupService == nil {
		return nil
	}
	check, err := c.BackupService.CheckReminder()
	if err != nil {
		logger.Warnw("worker_recipient_created_reminder_check_failed", "recipient_id", payload.RecipientID, "error", err)
		return err
	}
	if !check.NeedReminder {
		return nil
	}
	if err := c.QueueClient.EnqueueBackupReminder(queue.BackupReminderPayload{Total: check.Count}); err != nil {
		logger.Warnw("worker_backup_reminder_enqueue_failed", "total", check.Count, "error", err)
		return err
	}
	return nil
}
