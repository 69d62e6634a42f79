package service

import (
	"testing"
	"time"

	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/repository"
)

type memoryAuditRepo struct {
	logs []models.AdminAuditLog
}

func (r *memoryAuditRepo) Create(log *models.AdminAuditLog) error {
	log.ID = uint(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memoryAuditRepo) ListAdmin(filter repository.AdminAuditLogListFilter) ([]models.AdminAuditLog, int64, error) {
	return r.logs, int64(len(r.logs)), nil
}

func TestAuditServiceRecord(t *testing.T) {
	repo := &memoryAuditRepo{}
	svc := NewAuditService(repo)
	fixed := time.Date(2024, 5, 20, 9, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return fixed }

	if err := svc.Record(AuditRecordInput{Action: AuditActionDataClear}); err != nil {
		t.Fatalf("record without operator failed: %v", err)
	}
	if err := svc.Record(AuditRecordInput{OperatorUsername: "admin"}); err != nil {
		t.Fatalf("record without action failed: %v", err)
	}
	if len(repo.logs) != 0 {
		t.Fatalf("incomplete records should be ignored, got %d", len(repo.logs))
	}

	err := svc.Record(AuditRecordInput{
		OperatorUsername: " admin ",
		Action:           AuditActionRecipientDelete,
		TargetID:         "R20240520_001",
		Method:           "delete",
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(repo.logs) != 1 {
		t.Fatalf("want 1 log got %d", len(repo.logs))
	}
	got := repo.logs[0]
	if got.OperatorUsername != "admin" || got.Method != "DELETE" || !got.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected log: %+v", got)
	}
}

func TestAuditServiceNilIsNoop(t *testing.T) {
	var svc *AuditService
	if err := svc.Record(AuditRecordInput{OperatorUsername: "admin", Action: AuditActionLogin}); err != nil {
		t.Fatalf("nil service should ignore records, got %v", err)
	}
	items, total, err := svc.ListForAdmin(repository.AdminAuditLogListFilter{})
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("nil service list want empty got %d err=%v", total, err)
	}
}
