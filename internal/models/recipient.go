package models

import (
	"strings"
	"time"
)

// Recipient 喜糖领取记录（整体以 JSON 列表形式存放在存储槽位中）
type Recipient struct {
	ID                  string     `json:"id"`                    // 记录ID：R<YYYYMMDD>_<NNN>
	Name                string     `json:"name"`                  // 姓名
	Phone               string     `json:"phone"`                 // 脱敏手机号
	PhoneRaw            string     `json:"phone_raw"`             // 原始手机号（用于去重与联系）
	Wechat              string     `json:"wechat"`                // 微信号
	Address             Address    `json:"address"`               // 收货地址
	Relation            string     `json:"relation"`              // 与新人关系
	RelationText        string     `json:"relation_text"`         // 关系文案
	DeliveryTime        string     `json:"delivery_time"`         // 期望配送时间
	Blessing            string     `json:"blessing"`              // 祝福留言
	Status              string     `json:"status"`                // 状态：pending/shipped/received
	StatusText          string     `json:"status_text"`           // 状态文案
	SubmitTime          time.Time  `json:"submit_time"`           // 提交时间
	SubmitTimeFormatted string     `json:"submit_time_formatted"` // 提交时间（展示用）
	IPAddress           string     `json:"ip_address"`            // 固定标记，不记录真实 IP
	DeviceInfo          string     `json:"device_info"`           // 设备信息
	CreatedAt           time.Time  `json:"created_at"`            // 创建时间
	UpdatedAt           time.Time  `json:"updated_at"`            // 更新时间
	ShippedAt           *time.Time `json:"shipped_at,omitempty"`  // 首次发货时间
	ReceivedAt          *time.Time `json:"received_at,omitempty"` // 首次签收时间
}

// Address 收货地址
type Address struct {
	Province string `json:"province"` // 省份
	City     string `json:"city"`     // 城市
	District string `json:"district"` // 区县
	Detail   string `json:"detail"`   // 详细地址
	Zipcode  string `json:"zipcode"`  // 邮政编码
	Full     string `json:"full"`     // 完整地址（创建时拼接）
}

// BuildFull 拼接完整地址
func (a Address) BuildFull() string {
	return strings.TrimSpace(strings.Join([]string{a.Province, a.City, a.District, a.Detail}, " "))
}

// BackupSnapshot 备份快照
type BackupSnapshot struct {
	Data       []Recipient `json:"data"`
	BackupTime time.Time   `json:"backup_time"`
	Version    string      `json:"version"`
	Total      int         `json:"total"`
}

// BackupMeta 备份元信息
type BackupMeta struct {
	LastBackupTime    *time.Time `json:"last_backup_time,omitempty"`
	LastReminderCount int        `json:"last_reminder_count"`
}

// AdminSession 管理员会话
type AdminSession struct {
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Token        string    `json:"token"`
	LoginTime    time.Time `json:"login_time"`
	ExpiresAt    time.Time `json:"expires_at"`
	Remember     bool      `json:"remember"`
	LastActivity time.Time `json:"last_activity"`
}

// LoginAttempt 登录失败记录
type LoginAttempt struct {
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
}

// ExportRecord 导出历史记录
type ExportRecord struct {
	Format     string    `json:"format"`
	Filename   string    `json:"filename"`
	Total      int       `json:"total"`
	ExportedAt time.Time `json:"exported_at"`
}

// LastSubmission 最近一次提交（去除敏感字段后的副本）
type LastSubmission struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"` // 脱敏手机号
	Address    Address `json:"address"`
	Message    string  `json:"message"`
	SubmitTime string  `json:"submit_time"` // 格式化后的提交时间
}
