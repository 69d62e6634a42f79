package admin

import (
	"bytes"

	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) collectExportRecords(c *gin.Context) ([]models.Recipient, bool) {
	var filter service.ExportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return nil, false
	}
	records, err := h.ExportService.Collect(filter)
	if err != nil {
		respondWithMappedError(c, err, recipientErrorRules, response.CodeBadRequest, "error.bad_request")
		return nil, false
	}
	return records, true
}

// writeAttachment 输出附件并记录导出历史
func (h *Handler) writeAttachment(c *gin.Context, format, contentType string, body []byte, total int) {
	filename := h.ExportService.Filename(format)
	response.Attachment(c, filename, contentType, body)
	if err := h.ExportService.RecordExport(format, filename, total); err != nil {
		requestLog(c).Warnw("admin_export_history_save_failed", "format", format, "error", err)
	}
	h.recordAudit(c, service.AuditActionExport, "", models.JSON{"format": format, "total": total})
}

// ExportCSV 导出 CSV
func (h *Handler) ExportCSV(c *gin.Context) {
	records, ok := h.collectExportRecords(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.ExportService.WriteCSV(&buf, records); err != nil {
		respondError(c, response.CodeInternal, "error.export_failed", err)
		return
	}
	h.writeAttachment(c, constants.ExportFormatCSV, response.ContentTypeCSV, buf.Bytes(), len(records))
}

// ExportXLSX 导出 Excel
func (h *Handler) ExportXLSX(c *gin.Context) {
	records, ok := h.collectExportRecords(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.ExportService.WriteXLSX(&buf, records); err != nil {
		respondError(c, response.CodeInternal, "error.export_failed", err)
		return
	}
	h.writeAttachment(c, constants.ExportFormatXLSX, response.ContentTypeXLSX, buf.Bytes(), len(records))
}

// ExportJSON 导出 JSON 数据包
func (h *Handler) ExportJSON(c *gin.Context) {
	records, ok := h.collectExportRecords(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.ExportService.WriteJSON(&buf, records); err != nil {
		respondError(c, response.CodeInternal, "error.export_failed", err)
		return
	}
	h.writeAttachment(c, constants.ExportFormatJSON, response.ContentTypeJSON, buf.Bytes(), len(records))
}

// ImportJSON 导入 JSON 数据包（仅追加不存在的记录）
func (h *Handler) ImportJSON(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		respondError(c, response.CodeBadRequest, "error.import_invalid", err)
		return
	}
	result, err := h.ExportService.ImportJSON(data)
	if err != nil {
		respondBackupError(c, err)
		return
	}
	requestLog(c).Infow("admin_recipients_imported", "imported", result.Imported, "skipped", result.Skipped)
	h.recordAudit(c, service.AuditActionImportJSON, "", models.JSON{"imported": result.Imported, "skipped": result.Skipped})
	response.Success(c, result)
}

// GetExportHistory 获取导出历史
func (h *Handler) GetExportHistory(c *gin.Context) {
	history, err := h.ExportService.History()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, history)
}
