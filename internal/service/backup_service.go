package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/queue"
	"github.com/wedding-candy/internal/repository"
)

// PasswordVerifier 管理员密码校验
type PasswordVerifier interface {
	VerifyAdminPassword(password string) bool
}

// RestoreResult 恢复结果
type RestoreResult struct {
	Restored int `json:"restored"`
	Failed   int `json:"failed"`
}

// BackupStatus 备份状态
type BackupStatus struct {
	HasBackup      bool          `json:"has_backup"`
	BackupTotal    int           `json:"backup_total"`
	LastBackupTime *time.Time    `json:"last_backup_time"`
	HoursSince     int           `json:"hours_since"`
	NeedBackup     bool          `json:"need_backup"`
	Reminder       ReminderCheck `json:"reminder"`
}

// AutoBackupCheck 自动备份检查结果
type AutoBackupCheck struct {
	NeedBackup bool   `json:"need_backup"`
	Reason     string `json:"reason"`
	HoursSince int    `json:"hours_since"`
}

// ReminderCheck 备份提醒检查结果
type ReminderCheck struct {
	NeedReminder bool `json:"need_reminder"`
	Count        int  `json:"count"`
	Threshold    int  `json:"threshold"`
	LastReminder int  `json:"last_reminder"`
}

// BackupService 备份与恢复服务
type BackupService struct {
	recipients  *RecipientService
	backupRepo  repository.BackupRepository
	verifier    PasswordVerifier
	queueClient *queue.Client

	interval          time.Duration
	reminderThreshold int
	reminderStep      int
}

// NewBackupService 创建备份服务
func NewBackupService(
	cfg config.BackupConfig,
	recipients *RecipientService,
	backupRepo repository.BackupRepository,
	verifier PasswordVerifier,
	queueClient *queue.Client,
) *BackupService {
	intervalHours := cfg.AutoIntervalHours
	if intervalHours <= 0 {
		intervalHours = constants.BackupAutoIntervalHours
	}
	threshold := cfg.ReminderThreshold
	if threshold <= 0 {
		threshold = constants.BackupReminderThreshold
	}
	step := cfg.ReminderStep
	if step <= 0 {
		step = constants.BackupReminderStep
	}
	return &BackupService{
		recipients:        recipients,
		backupRepo:        backupRepo,
		verifier:          verifier,
		queueClient:       queueClient,
		interval:          time.Duration(intervalHours) * time.Hour,
		reminderThreshold: threshold,
		reminderStep:      step,
	}
}

// Backup 生成备份快照并记录备份时间
func (s *BackupService) Backup() (*models.BackupSnapshot, error) {
	now := s.recipients.Now()
	recipients, err := s.recipients.Snapshot()
	if err != nil {
		return nil, err
	}
	snapshot := &models.BackupSnapshot{
		Data:       recipients,
		BackupTime: now,
		Version:    constants.BackupVersion,
		Total:      len(recipients),
	}
	if err := s.backupRepo.SaveSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	meta, err := s.backupRepo.GetMeta()
	if err != nil {
		meta = &models.BackupMeta{}
	}
	meta.LastBackupTime = &now
	if err := s.backupRepo.SaveMeta(meta); err != nil {
		logger.Warnw("backup_meta_write_failed", "error", err)
	}
	return snapshot, nil
}

// GetBackup 读取备份快照
func (s *BackupService) GetBackup() (*models.BackupSnapshot, error) {
	snapshot, err := s.backupRepo.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackupInvalid, err)
	}
	if snapshot == nil {
		return nil, ErrBackupNotFound
	}
	return snapshot, nil
}

// Restore 使用快照整体替换记录
// 缺少 ID/姓名/手机号或 ID 重复的记录计为失败，其余按原顺序保留
func (s *BackupService) Restore(snapshot *models.BackupSnapshot) (RestoreResult, error) {
	if snapshot == nil || snapshot.Data == nil {
		return RestoreResult{}, ErrBackupInvalid
	}

	result := RestoreResult{}
	restored := make([]models.Recipient, 0, len(snapshot.Data))
	seen := make(map[string]struct{}, len(snapshot.Data))
	for _, item := range snapshot.Data {
		if !restorable(item) {
			result.Failed++
			logger.Warnw("backup_restore_record_invalid", "recipient_id", item.ID)
			continue
		}
		if _, ok := seen[item.ID]; ok {
			result.Failed++
			logger.Warnw("backup_restore_record_duplicate", "recipient_id", item.ID)
			continue
		}
		seen[item.ID] = struct{}{}
		restored = append(restored, item)
	}

	if err := s.recipients.ReplaceAll(restored); err != nil {
		return RestoreResult{Failed: len(snapshot.Data)}, err
	}
	result.Restored = len(restored)
	return result, nil
}

// RestoreFromBackup 从备份槽位恢复
func (s *BackupService) RestoreFromBackup() (RestoreResult, error) {
	snapshot, err := s.GetBackup()
	if err != nil {
		return RestoreResult{}, err
	}
	return s.Restore(snapshot)
}

// ClearAll 校验管理员密码后先备份再清空，返回清空数量
func (s *BackupService) ClearAll(password string) (int, error) {
	if s.verifier == nil || !s.verifier.VerifyAdminPassword(password) {
		return 0, ErrInvalidPassword
	}
	snapshot, err := s.Backup()
	if err != nil {
		return 0, err
	}
	if err := s.recipients.ReplaceAll(make([]models.Recipient, 0)); err != nil {
		return 0, err
	}

	meta, err := s.backupRepo.GetMeta()
	if err == nil {
		meta.LastReminderCount = 0
		if err := s.backupRepo.SaveMeta(meta); err != nil {
			logger.Warnw("backup_meta_reset_failed", "error", err)
		}
	}
	logger.Infow("recipients_cleared", "count", snapshot.Total)
	return snapshot.Total, nil
}

// CheckAutoBackup 检查是否需要自动备份，首次检查只记录时间
func (s *BackupService) CheckAutoBackup() (AutoBackupCheck, error) {
	now := s.recipients.Now()
	meta, err := s.backupRepo.GetMeta()
	if err != nil {
		return AutoBackupCheck{}, err
	}
	if meta.LastBackupTime == nil {
		meta.LastBackupTime = &now
		if err := s.backupRepo.SaveMeta(meta); err != nil {
			return AutoBackupCheck{}, err
		}
		return AutoBackupCheck{NeedBackup: false, Reason: "first_time"}, nil
	}

	since := now.Sub(*meta.LastBackupTime)
	check := AutoBackupCheck{HoursSince: int(since / time.Hour)}
	if since >= s.interval {
		check.NeedBackup = true
		check.Reason = "interval_elapsed"
	}
	return check, nil
}

// RunAutoBackup 到期时执行自动备份
func (s *BackupService) RunAutoBackup() (bool, error) {
	check, err := s.CheckAutoBackup()
	if err != nil {
		return false, err
	}
	if !check.NeedBackup {
		return false, nil
	}
	snapshot, err := s.Backup()
	if err != nil {
		return false, err
	}
	logger.Infow("backup_auto_created", "total", snapshot.Total, "hours_since", check.HoursSince)
	return true, nil
}

// CheckReminder 记录数达到阈值后提醒，之后每增加一个步长再次提醒
func (s *BackupService) CheckReminder() (ReminderCheck, error) {
	count := s.recipients.Count()
	check := ReminderCheck{Count: count, Threshold: s.reminderThreshold}
	if count < s.reminderThreshold {
		return check, nil
	}
	meta, err := s.backupRepo.GetMeta()
	if err != nil {
		return check, err
	}
	check.LastReminder = meta.LastReminderCount
	if meta.LastReminderCount > 0 && count-meta.LastReminderCount < s.reminderStep {
		return check, nil
	}
	check.NeedReminder = true
	return check, nil
}

// MarkReminderShown 记录本次提醒时的记录数
func (s *BackupService) MarkReminderShown() error {
	meta, err := s.backupRepo.GetMeta()
	if err != nil {
		return err
	}
	meta.LastReminderCount = s.recipients.Count()
	return s.backupRepo.SaveMeta(meta)
}

// Status 汇总备份状态
func (s *BackupService) Status() (BackupStatus, error) {
	status := BackupStatus{}
	snapshot, err := s.backupRepo.GetSnapshot()
	if err != nil {
		return status, err
	}
	if snapshot != nil {
		status.HasBackup = true
		status.BackupTotal = snapshot.Total
	}
	meta, err := s.backupRepo.GetMeta()
	if err != nil {
		return status, err
	}
	if meta.LastBackupTime != nil {
		last := *meta.LastBackupTime
		since := s.recipients.Now().Sub(last)
		status.LastBackupTime = &last
		status.HoursSince = int(since / time.Hour)
		status.NeedBackup = since >= s.interval
	}
	reminder, err := s.CheckReminder()
	if err != nil {
		return status, err
	}
	status.Reminder = reminder
	return status, nil
}

// ScheduleSnapshot 通过队列异步生成备份（队列未启用时同步执行）
func (s *BackupService) ScheduleSnapshot(reason string) error {
	if s.queueClient.Enabled() {
		return s.queueClient.EnqueueBackupSnapshot(queue.BackupSnapshotPayload{Reason: reason}, time.Minute)
	}
	_, err := s.Backup()
	return err
}

func restorable(item models.Recipient) bool {
	return strings.TrimSpace(item.ID) != "" &&
		strings.TrimSpace(item.Name) != "" &&
		strings.TrimSpace(item.Phone) != ""
}
