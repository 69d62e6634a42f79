package public

import (
	"github.com/wedding-candy/internal/provider"
	"github.com/wedding-candy/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 宾客侧处理器，无需登录
type Handler struct {
	*provider.Container
}

// New 创建宾客侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// clientMeta 提交端信息只保留 User-Agent，不记录 IP
func clientMeta(c *gin.Context) service.ClientMeta {
	return service.ClientMeta{UserAgent: c.Request.UserAgent()}
}
