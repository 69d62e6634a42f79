package shared

import (
	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/i18n"
	"github.com/wedding-candy/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	logAndRespond(c, response.WrapError(code, key, msg, err))
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	logAndRespond(c, response.WrapError(code, "", msg, err))
}

// 5xx 记为 error，其余业务错误仅记 warn
func logAndRespond(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		log := RequestLog(c)
		fields := []interface{}{"code", appErr.Code, "key", appErr.Key, "error", appErr.Err}
		if appErr.Code >= response.CodeInternal {
			log.Errorw("handler_error", fields...)
		} else {
			log.Warnw("handler_error", fields...)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
