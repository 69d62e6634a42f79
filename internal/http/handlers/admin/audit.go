package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/repository"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

// recordAudit 记录后台敏感操作，失败只记日志不影响响应
func (h *Handler) recordAudit(c *gin.Context, action, targetID string, detail models.JSON) {
	if h == nil || h.Container == nil || h.AuditService == nil {
		return
	}
	input := service.AuditRecordInput{
		OperatorUsername: c.GetString(handlershared.ContextKeyAdminUsername),
		OperatorRole:     c.GetString(handlershared.ContextKeyAdminRole),
		Action:           action,
		TargetID:         targetID,
		Object:           c.FullPath(),
		Method:           c.Request.Method,
		RequestID:        c.GetString("request_id"),
		ClientIP:         c.ClientIP(),
		Detail:           detail,
	}
	if err := h.AuditService.Record(input); err != nil {
		requestLog(c).Warnw("admin_audit_record_failed", "action", action, "error", err)
	}
}

// ListAuditLogs 获取后台操作审计日志列表
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.AuditService.ListForAdmin(repository.AdminAuditLogListFilter{
		Page:             page,
		PageSize:         pageSize,
		OperatorUsername: strings.TrimSpace(c.Query("operator")),
		Action:           strings.TrimSpace(c.Query("action")),
		Keyword:          strings.TrimSpace(c.Query("keyword")),
		CreatedFrom:      createdFrom,
		CreatedTo:        createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.SuccessWithPage(c, items, handlershared.BuildPagination(page, pageSize, int(total)))
}

// parseTimeNullable 解析 RFC3339 或 YYYY-MM-DD，空串返回 nil
func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
