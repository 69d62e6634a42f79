package admin

import (
	"time"

	"github.com/wedding-candy/internal/provider"
)

// Handler 管理端处理器，覆盖领取记录、统计、备份导出、会话与审计
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// location 日期筛选与记录时间使用同一时区
func (h *Handler) location() *time.Location {
	return h.RecipientService.Now().Location()
}
