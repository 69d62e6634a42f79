package admin

import (
	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/i18n"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

// GetBackupStatus 获取备份状态
func (h *Handler) GetBackupStatus(c *gin.Context) {
	status, err := h.BackupService.Status()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, status)
}

// CreateBackup 立即备份；async=true 时交给队列执行
func (h *Handler) CreateBackup(c *gin.Context) {
	locale := i18n.ResolveLocale(c)
	if c.Query("async") == "true" {
		if err := h.BackupService.ScheduleSnapshot("manual"); err != nil {
			respondBackupError(c, err)
			return
		}
		response.SuccessWithMsg(c, i18n.T(locale, "message.backup_created"), gin.H{"scheduled": true})
		return
	}

	snapshot, err := h.BackupService.Backup()
	if err != nil {
		respondBackupError(c, err)
		return
	}
	if err := h.BackupService.MarkReminderShown(); err != nil {
		requestLog(c).Warnw("admin_backup_reminder_mark_failed", "error", err)
	}
	h.recordAudit(c, service.AuditActionBackupCreate, "", models.JSON{"total": snapshot.Total})
	response.SuccessWithMsg(c, i18n.T(locale, "message.backup_created"), gin.H{
		"total":       snapshot.Total,
		"backup_time": snapshot.BackupTime,
		"version":     snapshot.Version,
	})
}

// RestoreBackup 从请求体中的快照或已保存的备份恢复
func (h *Handler) RestoreBackup(c *gin.Context) {
	var (
		result service.RestoreResult
		err    error
	)
	if c.Request.ContentLength > 0 {
		var snapshot models.BackupSnapshot
		if bindErr := c.ShouldBindJSON(&snapshot); bindErr != nil {
			respondError(c, response.CodeBadRequest, "error.backup_invalid", bindErr)
			return
		}
		result, err = h.BackupService.Restore(&snapshot)
	} else {
		result, err = h.BackupService.RestoreFromBackup()
	}
	if err != nil {
		respondBackupError(c, err)
		return
	}
	requestLog(c).Infow("admin_backup_restored", "restored", result.Restored, "failed", result.Failed)
	h.recordAudit(c, service.AuditActionBackupRestore, "", models.JSON{"restored": result.Restored, "failed": result.Failed})
	response.Success(c, result)
}

// ClearRequest 清空数据请求
type ClearRequest struct {
	Password string `json:"password" binding:"required"`
}

// ClearAllRecipients 校验管理员密码后清空全部记录（清空前自动备份）
func (h *Handler) ClearAllRecipients(c *gin.Context) {
	var req ClearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cleared, err := h.BackupService.ClearAll(req.Password)
	if err != nil {
		respondBackupError(c, err)
		return
	}
	requestLog(c).Warnw("admin_recipients_cleared", "operator", c.GetString(handlershared.ContextKeyAdminUsername), "cleared", cleared)
	h.recordAudit(c, service.AuditActionDataClear, "", models.JSON{"cleared": cleared})
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "message.data_cleared"), gin.H{"cleared": cleared})
}

// GetStorageUsage 获取存储用量
func (h *Handler) GetStorageUsage(c *gin.Context) {
	usage, err := h.RecipientService.GetStorageUsage()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, usage)
}
