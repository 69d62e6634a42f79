package constants

// 领取记录状态常量
const (
	RecipientStatusPending  = "pending"
	RecipientStatusShipped  = "shipped"
	RecipientStatusReceived = "received"
)

// 领取记录状态文案
const (
	RecipientStatusTextPending  = "待处理"
	RecipientStatusTextShipped  = "已发货"
	RecipientStatusTextReceived = "已签收"
	RecipientStatusTextUnknown  = "未知"
)

// 与新人关系常量
const (
	RelationFamily    = "family"
	RelationFriend    = "friend"
	RelationColleague = "colleague"
	RelationRelative  = "relative"
	RelationOther     = "other"
)

// RelationTexts 关系文案映射（按展示顺序）
var RelationTexts = map[string]string{
	RelationFamily:    "家人",
	RelationFriend:    "朋友",
	RelationColleague: "同事",
	RelationRelative:  "亲戚",
	RelationOther:     "其他",
}

// RelationOrder 关系展示顺序
var RelationOrder = []string{
	RelationFamily,
	RelationFriend,
	RelationColleague,
	RelationRelative,
	RelationOther,
}

// 期望配送时间常量
const (
	DeliveryTimeAnytime   = "anytime"
	DeliveryTimeWorkday   = "workday"
	DeliveryTimeWeekend   = "weekend"
	DeliveryTimeMorning   = "morning"
	DeliveryTimeAfternoon = "afternoon"
)

// DeliveryTimeTexts 配送时间文案映射
var DeliveryTimeTexts = map[string]string{
	DeliveryTimeAnytime:   "任意时间",
	DeliveryTimeWorkday:   "工作日",
	DeliveryTimeWeekend:   "周末",
	DeliveryTimeMorning:   "上午",
	DeliveryTimeAfternoon: "下午",
}

// DeliveryTimeOrder 配送时间展示顺序
var DeliveryTimeOrder = []string{
	DeliveryTimeAnytime,
	DeliveryTimeWorkday,
	DeliveryTimeWeekend,
	DeliveryTimeMorning,
	DeliveryTimeAfternoon,
}

// 存储槽位键名
const (
	SlotRecipients          = "wedding_recipients_data"
	SlotRecipientsBackup    = "wedding_recipients_backup"
	SlotLastSubmission      = "wedding_last_submission"
	SlotBackupMeta          = "wedding_backup_meta"
	SlotExportHistory       = "wedding_export_history"
	SlotAdminPasswordHash   = "admin_password_custom"
	SlotAdminPasswordChange = "admin_password_changed_at"
	SlotAdminFailedAttempts = "admin_failed_attempts"
	SlotAdminSessionPrefix  = "admin_session:"

	// SlotAdminPrefix 管理员登录相关槽位前缀，不受容量上限约束
	SlotAdminPrefix = "admin_"
)

// 存储驱动
const (
	StorageDriverMemory   = "memory"
	StorageDriverDatabase = "database"
	StorageDriverRedis    = "redis"
)

// DefaultStorageCapacityBytes 默认存储容量（对齐浏览器本地存储 5MB 上限）
const DefaultStorageCapacityBytes int64 = 5 * 1024 * 1024

// 领取记录相关常量
const (
	ClientIPAddressMarker        = "Client-Side"
	RecipientIDPrefix            = "R"
	RecipientSequenceWidth       = 3
	RecipientUnknownText         = "未知"
	RecipientStatisticsTopCities = 10
	RecipientDefaultTrendDays    = 7
	RecipientSubmitTimeLayout    = "2006-01-02 15:04:05"
	RecipientIDDateLayout        = "20060102"
	RecipientTrendDateLayout     = "2006-01-02"
)

// 备份相关常量
const (
	BackupVersion              = "1.0"
	BackupAutoIntervalHours    = 24
	BackupReminderThreshold    = 100
	BackupReminderStep         = 50
	BackupCheckIntervalMinutes = 60
)

// 导出相关常量
const (
	ExportHistoryLimit            = 5
	ExportFilenameTimestampLayout = "20060102_150405"
)

// 管理员认证相关常量
const (
	AdminLockoutMaxAttempts     = 5
	AdminLockoutWindowMinutes   = 10
	AdminFailedAttemptsKeep     = 10
	AdminPasswordMinLength      = 6
	AdminDefaultSessionMinutes  = 120
	AdminSessionExtendMinutes   = 30
	AdminRememberTimeoutFactor  = 2
	AdminPasswordStrengthWeak   = "weak"
	AdminPasswordStrengthMedium = "medium"
	AdminPasswordStrengthStrong = "strong"
)

// 管理员角色
const (
	AdminRoleOwner  = "owner"
	AdminRoleViewer = "viewer"
)

// 导出格式
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
	ExportFormatJSON = "json"
)

// 验证码相关常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
	CaptchaSceneSubmit   = "submit"
	CaptchaSceneLogin    = "login"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskBackupSnapshot  = "backup:snapshot"
	TaskBackupReminder  = "backup:reminder"
	TaskRecipientNotice = "recipient:created"
)
