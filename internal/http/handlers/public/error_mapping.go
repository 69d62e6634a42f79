package public

import (
	"errors"

	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/i18n"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
}

var recipientSubmitErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, key: "error.recipient_required"},
	{target: service.ErrDuplicatePhone, code: response.CodeConflict, key: "error.phone_duplicate"},
	{target: service.ErrStorage, code: response.CodeInsufficientStorage, key: "error.storage_full"},
}

func respondCaptchaError(c *gin.Context, err error) {
	respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_config_invalid")
}

// respondFormError 返回字段级校验错误列表
func respondFormError(c *gin.Context, err error) {
	var formErr *service.FormValidationError
	if errors.As(err, &formErr) {
		locale := i18n.ResolveLocale(c)
		response.ErrorWithData(c, response.CodeBadRequest, i18n.T(locale, "error.form_invalid"), gin.H{
			"fields": formErr.Fields,
		})
		return
	}
	respondError(c, response.CodeBadRequest, "error.form_invalid", nil)
}

func respondRecipientSubmitError(c *gin.Context, err error) {
	respondWithMappedError(c, err, recipientSubmitErrorRules, response.CodeInternal, "error.internal_error")
}
