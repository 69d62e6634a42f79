package service

import (
	"errors"
	"testing"
	"time"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/repository"

	"github.com/google/go-cmp/cmp"
)

type staticPasswordVerifier string

func (v staticPasswordVerifier) VerifyAdminPassword(password string) bool {
	return password == string(v)
}

func newTestBackupService(t *testing.T, cfg config.BackupConfig) (*BackupService, *RecipientService, *testClock) {
	t.Helper()
	store := repository.NewMemorySlotStore()
	recipients, clock := newTestRecipientService(t, store)
	backups := NewBackupService(cfg, recipients, repository.NewBackupRepository(store), staticPasswordVerifier("secret"), nil)
	return backups, recipients, clock
}

func TestBackupServiceRoundTrip(t *testing.T) {
	backups, recipients, _ := newTestBackupService(t, config.BackupConfig{})
	mustCreate(t, recipients, "张三", "13800138000")
	mustCreate(t, recipients, "李四", "13900139001")
	before := recipients.GetAll()

	snapshot, err := backups.Backup()
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if snapshot.Total != 2 {
		t.Fatalf("snapshot total want 2 got %d", snapshot.Total)
	}

	if err := recipients.ReplaceAll(nil); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	result, err := backups.Restore(snapshot)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if result.Restored != 2 || result.Failed != 0 {
		t.Fatalf("restore result want {2,0} got %+v", result)
	}
	if diff := cmp.Diff(before, recipients.GetAll()); diff != "" {
		t.Fatalf("records differ after restore (-want +got):\n%s", diff)
	}
}

func TestBackupServiceRestoreCountsInvalidRecords(t *testing.T) {
	backups, recipients, _ := newTestBackupService(t, config.BackupConfig{})
	snapshot := &models.BackupSnapshot{Data: []models.Recipient{
		{ID: "R1", Name: "甲", Phone: "138****0001"},
		{ID: "R1", Name: "甲2", Phone: "138****0002"},
		{ID: "", Name: "乙", Phone: "138****0003"},
		{ID: "R3", Name: "", Phone: "138****0004"},
	}}
	result, err := backups.Restore(snapshot)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if result.Restored != 1 || result.Failed != 3 {
		t.Fatalf("restore result want {1,3} got %+v", result)
	}
	if recipients.Count() != 1 {
		t.Fatalf("only valid records should be restored")
	}
	if _, err := backups.Restore(&models.BackupSnapshot{}); !errors.Is(err, ErrBackupInvalid) {
		t.Fatalf("snapshot without data want ErrBackupInvalid got %v", err)
	}
}

func TestBackupServiceRestoreFromBackupMissing(t *testing.T) {
	backups, _, _ := newTestBackupService(t, config.BackupConfig{})
	if _, err := backups.RestoreFromBackup(); !errors.Is(err, ErrBackupNotFound) {
		t.Fatalf("want ErrBackupNotFound got %v", err)
	}
}

func TestBackupServiceClearAll(t *testing.T) {
	backups, recipients, _ := newTestBackupService(t, config.BackupConfig{})
	mustCreate(t, recipients, "张三", "13800138000")
	mustCreate(t, recipients, "李四", "13900139001")

	if _, err := backups.ClearAll("wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("wrong password want ErrInvalidPassword got %v", err)
	}
	if recipients.Count() != 2 {
		t.Fatalf("records must survive a rejected clear")
	}

	cleared, err := backups.ClearAll("secret")
	if err != nil || cleared != 2 {
		t.Fatalf("clear want 2 got %d err=%v", cleared, err)
	}
	if recipients.Count() != 0 {
		t.Fatalf("records should be cleared")
	}
	snapshot, err := backups.GetBackup()
	if err != nil || snapshot.Total != 2 {
		t.Fatalf("clear should keep a backup of cleared records, got %+v err=%v", snapshot, err)
	}
}

func TestBackupServiceAutoBackup(t *testing.T) {
	backups, recipients, clock := newTestBackupService(t, config.BackupConfig{AutoIntervalHours: 24})
	mustCreate(t, recipients, "张三", "13800138000")

	check, err := backups.CheckAutoBackup()
	if err != nil || check.NeedBackup || check.Reason != "first_time" {
		t.Fatalf("first check should only record time, got %+v err=%v", check, err)
	}

	clock.Advance(23 * time.Hour)
	if ran, err := backups.RunAutoBackup(); err != nil || ran {
		t.Fatalf("backup should not run before interval, ran=%v err=%v", ran, err)
	}

	clock.Advance(2 * time.Hour)
	ran, err := backups.RunAutoBackup()
	if err != nil || !ran {
		t.Fatalf("backup should run after interval, ran=%v err=%v", ran, err)
	}
	status, err := backups.Status()
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.HasBackup || status.NeedBackup || status.HoursSince != 0 {
		t.Fatalf("unexpected status after auto backup: %+v", status)
	}
}

func TestBackupServiceReminder(t *testing.T) {
	backups, recipients, _ := newTestBackupService(t, config.BackupConfig{ReminderThreshold: 3, ReminderStep: 2})
	phones := []string{"13800138000", "13900139001", "13700137002", "13600136003", "13500135004"}
	names := []string{"甲甲", "乙乙", "丙丙", "丁丁", "戊戊"}

	for i := 0; i < 2; i++ {
		mustCreate(t, recipients, names[i], phones[i])
	}
	if check, _ := backups.CheckReminder(); check.NeedReminder {
		t.Fatalf("no reminder below threshold: %+v", check)
	}

	mustCreate(t, recipients, names[2], phones[2])
	check, err := backups.CheckReminder()
	if err != nil || !check.NeedReminder || check.Count != 3 {
		t.Fatalf("reminder expected at threshold, got %+v err=%v", check, err)
	}
	if err := backups.MarkReminderShown(); err != nil {
		t.Fatalf("mark reminder failed: %v", err)
	}

	mustCreate(t, recipients, names[3], phones[3])
	if check, _ := backups.CheckReminder(); check.NeedReminder {
		t.Fatalf("no reminder before next step: %+v", check)
	}
	mustCreate(t, recipients, names[4], phones[4])
	if check, _ := backups.CheckReminder(); !check.NeedReminder || check.LastReminder != 3 {
		t.Fatalf("reminder expected after step: %+v", check)
	}
}

func TestBackupServiceScheduleSnapshotWithoutQueue(t *testing.T) {
	backups, recipients, _ := newTestBackupService(t, config.BackupConfig{})
	mustCreate(t, recipients, "张三", "13800138000")
	if err := backups.ScheduleSnapshot("manual"); err != nil {
		t.Fatalf("schedule snapshot failed: %v", err)
	}
	status, err := backups.Status()
	if err != nil || !status.HasBackup || status.LastBackupTime == nil {
		t.Fatalf("snapshot should be written synchronously, got %+v err=%v", status, err)
	}
}
