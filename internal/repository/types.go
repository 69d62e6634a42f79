package repository

import "time"

// AdminAuditLogListFilter 查询后台审计日志列表的过滤条件
type AdminAuditLogListFilter struct {
	Page             int
	PageSize         int
	OperatorUsername string
	Action           string
	Keyword          string
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
}
