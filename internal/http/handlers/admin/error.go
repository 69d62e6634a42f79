package admin

import (
	"errors"

	handlershared "github.com/wedding-candy/internal/http/handlers/shared"
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/i18n"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

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

var recipientErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.recipient_not_found"},
	{target: service.ErrInvalidStatus, code: response.CodeBadRequest, key: "error.status_invalid"},
	{target: service.ErrValidation, code: response.CodeBadRequest, key: "error.recipient_required"},
	{target: service.ErrFormInvalid, code: response.CodeBadRequest, key: "error.form_invalid"},
	{target: service.ErrStorage, code: response.CodeInsufficientStorage, key: "error.storage_full"},
}

var backupErrorRules = []mappedHandlerError{
	{target: service.ErrBackupNotFound, code: response.CodeNotFound, key: "error.backup_not_found"},
	{target: service.ErrBackupInvalid, code: response.CodeBadRequest, key: "error.backup_invalid"},
	{target: service.ErrImportInvalid, code: response.CodeBadRequest, key: "error.import_invalid"},
	{target: service.ErrInvalidPassword, code: response.CodeBadRequest, key: "error.password_invalid"},
	{target: service.ErrStorage, code: response.CodeInsufficientStorage, key: "error.storage_full"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrLoginLocked, code: response.CodeLocked, key: "error.login_locked"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
}

var sessionErrorRules = []mappedHandlerError{
	{target: service.ErrSessionExpired, code: response.CodeUnauthorized, key: "error.session_expired"},
	{target: service.ErrSessionInvalid, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

func respondRecipientError(c *gin.Context, err error) {
	respondWithMappedError(c, err, recipientErrorRules, response.CodeInternal, "error.internal_error")
}

func respondBackupError(c *gin.Context, err error) {
	respondWithMappedError(c, err, backupErrorRules, response.CodeInternal, "error.internal_error")
}

// respondPasswordPolicyError 按密码策略错误携带的 key 与参数渲染提示
func respondPasswordPolicyError(c *gin.Context, err error) bool {
	perr, ok := err.(interface {
		Key() string
		Args() []interface{}
	})
	if !ok {
		return false
	}
	locale := i18n.ResolveLocale(c)
	respondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, perr.Key(), perr.Args()...), nil)
	return true
}
