package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

// GetRecipients 获取领取记录列表（筛选 + 分页）
func (h *Handler) GetRecipients(c *gin.Context) {
	var filter service.ExportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	records, err := service.FilterRecipients(h.RecipientService.GetAll(), filter, h.location())
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	start, end := handlershared.PageBounds(len(records), page, pageSize)
	response.SuccessWithPage(c, records[start:end], handlershared.BuildPagination(page, pageSize, len(records)))
}

// GetRecipient 获取单条领取记录
func (h *Handler) GetRecipient(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	record, ok := h.RecipientService.GetByID(id)
	if !ok {
		respondError(c, response.CodeNotFound, "error.recipient_not_found", nil)
		return
	}
	response.Success(c, record)
}

// PatchRecipient 部分更新领取记录（不可修改状态、ID 与手机号）
func (h *Handler) PatchRecipient(c *gin.Context) {
	var patch service.RecipientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	record, err := h.RecipientService.Patch(c.Param("id"), patch)
	if err != nil {
		respondRecipientError(c, err)
		return
	}
	h.recordAudit(c, service.AuditActionRecipientUpdate, record.ID, nil)
	response.Success(c, record)
}

// UpdateStatusRequest 状态更新请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRecipientStatus 更新领取状态
func (h *Handler) UpdateRecipientStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	record, err := h.RecipientService.SetStatus(c.Param("id"), strings.TrimSpace(req.Status))
	if err != nil {
		respondRecipientError(c, err)
		return
	}
	h.recordAudit(c, service.AuditActionRecipientStatus, record.ID, models.JSON{"status": record.Status})
	response.Success(c, record)
}

// ToggleRecipientStatus 在待发货与已发货之间切换
func (h *Handler) ToggleRecipientStatus(c *gin.Context) {
	record, err := h.RecipientService.Toggle(c.Param("id"))
	if err != nil {
		respondRecipientError(c, err)
		return
	}
	h.recordAudit(c, service.AuditActionRecipientStatus, record.ID, models.JSON{"status": record.Status})
	response.Success(c, record)
}

// DeleteRecipient 删除领取记录
func (h *Handler) DeleteRecipient(c *gin.Context) {
	id := c.Param("id")
	if err := h.RecipientService.Delete(id); err != nil {
		respondRecipientError(c, err)
		return
	}
	requestLog(c).Infow("admin_recipient_deleted", "recipient_id", id)
	h.recordAudit(c, service.AuditActionRecipientDelete, id, nil)
	response.Success(c, gin.H{"id": id})
}

// BatchDeleteRequest 批量删除请求
type BatchDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// BatchDeleteRecipients 批量删除领取记录
func (h *Handler) BatchDeleteRecipients(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result := h.RecipientService.BatchDelete(req.IDs)
	h.recordAudit(c, service.AuditActionRecipientBatch, "", models.JSON{"ids": req.IDs, "success": result.Success, "failed": result.Failed})
	response.Success(c, result)
}
