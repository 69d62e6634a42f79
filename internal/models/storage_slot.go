package models

import "time"

// StorageSlot 键值槽位表（每个键保存一份 JSON 文本）
type StorageSlot struct {
	Key       string    `gorm:"primarykey;size:191" json:"key"` // 槽位键
	Value     string    `gorm:"type:text;not null" json:"value"` // JSON 文本
	Size      int64     `gorm:"not null;default:0" json:"size"`  // 字节数
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`         // 更新时间
}

// TableName 指定表名
func (StorageSlot) TableName() string {
	return "storage_slots"
}
