package service

import (
	"strings"
	"time"

	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/repository"
)

// 审计动作
const (
	AuditActionLogin           = "login"
	AuditActionPasswordChange  = "password_change"
	AuditActionPasswordReset   = "password_reset"
	AuditActionRecipientUpdate = "recipient_update"
	AuditActionRecipientStatus = "recipient_status"
	AuditActionRecipientDelete = "recipient_delete"
	AuditActionRecipientBatch  = "recipient_batch_delete"
	AuditActionBackupCreate    = "backup_create"
	AuditActionBackupRestore   = "backup_restore"
	AuditActionDataClear       = "data_clear"
	AuditActionImportJSON      = "import_json"
	AuditActionExport          = "export"
)

// AuditRecordInput 审计记录输入
type AuditRecordInput struct {
	OperatorUsername string
	OperatorRole     string
	Action           string
	TargetID         string
	Object           string
	Method           string
	RequestID        string
	ClientIP         string
	Detail           models.JSON
}

// AuditService 后台操作审计服务
type AuditService struct {
	repo repository.AdminAuditLogRepository
	now  func() time.Time
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AdminAuditLogRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// Record 记录审计日志；未配置仓库或缺少操作人、动作时直接忽略
func (s *AuditService) Record(input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if strings.TrimSpace(input.OperatorUsername) == "" || strings.TrimSpace(input.Action) == "" {
		return nil
	}

	item := &models.AdminAuditLog{
		OperatorUsername: strings.TrimSpace(input.OperatorUsername),
		OperatorRole:     strings.TrimSpace(input.OperatorRole),
		Action:           strings.TrimSpace(input.Action),
		TargetID:         strings.TrimSpace(input.TargetID),
		Object:           strings.TrimSpace(input.Object),
		Method:           strings.ToUpper(strings.TrimSpace(input.Method)),
		RequestID:        strings.TrimSpace(input.RequestID),
		ClientIP:         strings.TrimSpace(input.ClientIP),
		DetailJSON:       input.Detail,
		CreatedAt:        s.now(),
	}
	return s.repo.Create(item)
}

// ListForAdmin 管理端查询审计日志
func (s *AuditService) ListForAdmin(filter repository.AdminAuditLogListFilter) ([]models.AdminAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AdminAuditLog{}, 0, nil
	}
	return s.repo.ListAdmin(filter)
}
