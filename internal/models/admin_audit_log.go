package models

import "time"

// AdminAuditLog 后台操作审计日志
// 说明：记录删除、清空、恢复、导入、改密等敏感操作，支持按操作人、动作与时间范围检索。
type AdminAuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OperatorUsername string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator_username"`
	OperatorRole     string    `gorm:"type:varchar(50);not null;default:''" json:"operator_role"`
	Action           string    `gorm:"type:varchar(100);index;not null" json:"action"`
	TargetID         string    `gorm:"type:varchar(64);index;not null;default:''" json:"target_id"`
	Object           string    `gorm:"type:varchar(255);not null;default:''" json:"object"`
	Method           string    `gorm:"type:varchar(20);not null;default:''" json:"method"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	ClientIP         string    `gorm:"type:varchar(64);not null;default:''" json:"client_ip"`
	DetailJSON       JSON      `gorm:"type:json" json:"detail"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
