package queue

import (
	"encoding/json"
	"fmt"

	"github.com/wedding-candy/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskBackupSnapshot 备份快照任务
	TaskBackupSnapshot = constants.TaskBackupSnapshot
	// TaskBackupReminder 备份提醒任务
	TaskBackupReminder = constants.TaskBackupReminder
	// TaskRecipientCreated 新领取记录通知任务
	TaskRecipientCreated = constants.TaskRecipientNotice
)

// BackupSnapshotPayload 备份快照任务载荷
type BackupSnapshotPayload struct {
	Reason string `json:"reason"` // recipient_created / auto / manual
}

// BackupReminderPayload 备份提醒任务载荷
type BackupReminderPayload struct {
	Total int `json:"total"`
}

// RecipientCreatedPayload 新领取记录任务载荷
type RecipientCreatedPayload struct {
	RecipientID string `json:"recipient_id"`
	Name        string `json:"name"`
	Total       int    `json:"total"`
}

// NewBackupSnapshotTask 创建备份快照任务
func NewBackupSnapshotTask(payload BackupSnapshotPayload) (*asynq.Task, error) {
	return newTask(TaskBackupSnapshot, payload)
}

// NewBackupReminderTask 创建备份提醒任务
func NewBackupReminderTask(payload BackupReminderPayload) (*asynq.Task, error) {
	return newTask(TaskBackupReminder, payload)
}

// NewRecipientCreatedTask 创建新领取记录通知任务
func NewRecipientCreatedTask(payload RecipientCreatedPayload) (*asynq.Task, error) {
	return newTask(TaskRecipientCreated, payload)
}

// DecodePayload 解析任务载荷，格式错误的任务不再重试
func DecodePayload[T any](task *asynq.Task) (T, error) {
	var payload T
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return payload, nil
}

func newTask[T any](typename string, payload T) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, body), nil
}
