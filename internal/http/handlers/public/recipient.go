package public

import (
	"github.com/wedding-candy/internal/constants"
	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/i18n"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

// OptionItem 下拉选项
type OptionItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SubmitRecipientRequest 领取表单提交请求
type SubmitRecipientRequest struct {
	service.RecipientInput
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// GetFormOptions 获取表单选项（关系、配送时间、验证码开关）
func (h *Handler) GetFormOptions(c *gin.Context) {
	relations := make([]OptionItem, 0, len(constants.RelationOrder))
	for _, key := range constants.RelationOrder {
		relations = append(relations, OptionItem{Value: key, Label: constants.RelationTexts[key]})
	}
	deliveryTimes := make([]OptionItem, 0, len(constants.DeliveryTimeOrder))
	for _, key := range constants.DeliveryTimeOrder {
		deliveryTimes = append(deliveryTimes, OptionItem{Value: key, Label: constants.DeliveryTimeTexts[key]})
	}

	data := gin.H{
		"relations":      relations,
		"delivery_times": deliveryTimes,
	}
	if h.CaptchaService != nil {
		data["captcha"] = h.CaptchaService.PublicSetting()
	}
	response.Success(c, data)
}

// SubmitRecipient 提交喜糖领取信息
func (h *Handler) SubmitRecipient(c *gin.Context) {
	var req SubmitRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := req.CaptchaPayload.Verify(h.CaptchaService, constants.CaptchaSceneSubmit); err != nil {
		respondCaptchaError(c, err)
		return
	}

	input := req.RecipientInput.Normalize()
	if h.FormValidator != nil {
		if err := h.FormValidator.Validate(input); err != nil {
			respondFormError(c, err)
			return
		}
	}

	result := h.RecipientService.Create(input, clientMeta(c))
	if !result.Success {
		respondRecipientSubmitError(c, result.Err)
		return
	}

	locale := i18n.ResolveLocale(c)
	record := result.Data
	response.SuccessWithMsg(c, i18n.T(locale, "message.submit_success"), gin.H{
		"id":          record.ID,
		"name":        record.Name,
		"phone":       record.Phone,
		"address":     record.Address,
		"status":      record.Status,
		"status_text": record.StatusText,
		"submit_time": record.SubmitTimeFormatted,
	})
}

// GetLastSubmission 获取最近一次提交（用于成功页回显）
func (h *Handler) GetLastSubmission(c *gin.Context) {
	last, err := h.RecipientService.GetLastSubmission()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	if last == nil {
		respondError(c, response.CodeNotFound, "error.not_found", nil)
		return
	}
	response.Success(c, last)
}
