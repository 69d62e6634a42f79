package shared

import (
	"github.com/wedding-candy/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyAdminUsername 管理员用户名
	ContextKeyAdminUsername = "admin_username"
	// ContextKeyAdminRole 管理员角色
	ContextKeyAdminRole = "admin_role"
	// ContextKeySessionToken 管理会话令牌
	ContextKeySessionToken = "admin_session_token"
	// ContextKeyAdminSession 管理会话对象
	ContextKeyAdminSession = "admin_session"
)

// GetContextStringWithKey 从上下文读取字符串值，缺失时返回未授权。
func GetContextStringWithKey(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	v, ok := value.(string)
	if !ok || v == "" {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	return v, true
}

// GetAdminUsername 读取当前管理员用户名。
func GetAdminUsername(c *gin.Context) (string, bool) {
	return GetContextStringWithKey(c, ContextKeyAdminUsername)
}

// GetSessionToken 读取当前管理会话令牌。
func GetSessionToken(c *gin.Context) (string, bool) {
	return GetContextStringWithKey(c, ContextKeySessionToken)
}
