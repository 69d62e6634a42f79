package i18n

var catalog = map[string]map[string]string{
	LocaleZH: {
		"error.bad_request":            "请求参数错误",
		"error.unauthorized":           "未登录或登录已失效",
		"error.forbidden":              "没有权限执行该操作",
		"error.not_found":              "资源不存在",
		"error.internal_error":         "服务器内部错误",
		"error.jwt_secret_missing":     "服务端未配置 JWT 密钥",
		"error.auth_header_missing":    "缺少 Authorization 请求头",
		"error.auth_header_invalid":    "Authorization 格式错误",
		"error.token_invalid":          "登录凭证无效",
		"error.session_expired":        "会话已过期，请重新登录",
		"error.rate_limited":           "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable": "限流服务暂不可用",
		"error.form_invalid":           "表单校验失败",
		"error.recipient_required":     "姓名和手机号为必填项",
		"error.phone_duplicate":        "该手机号已经提交过领取信息",
		"error.storage_full":           "存储空间不足，保存失败",
		"error.recipient_not_found":    "领取记录不存在",
		"error.status_invalid":         "状态值无效或当前状态不支持切换",
		"error.backup_not_found":       "暂无备份数据",
		"error.backup_invalid":         "备份数据格式错误",
		"error.import_invalid":         "导入文件格式错误",
		"error.export_format_invalid":  "不支持的导出格式",
		"error.export_failed":          "导出失败",
		"error.login_invalid":          "用户名或密码错误",
		"error.login_locked":           "登录失败次数过多，请10分钟后再试",
		"error.password_old_invalid":   "原密码错误",
		"error.password_invalid":       "管理员密码错误",
		"error.password_min_length":    "密码长度至少%d位",
		"error.captcha_required":       "请输入验证码",
		"error.captcha_invalid":        "验证码错误或已过期",
		"error.captcha_config_invalid": "验证码未启用",
		"password.strength_weak":       "弱",
		"password.strength_medium":     "中",
		"password.strength_strong":     "强",
		"message.submit_success":       "提交成功",
		"message.logout_success":       "已退出登录",
		"message.password_changed":     "密码修改成功",
		"message.password_reset":       "密码已重置为默认密码",
		"message.backup_created":       "备份成功",
		"message.data_cleared":         "数据已清空",

		"email.backup_reminder.subject":     "喜糖登记提醒：已有 %d 条领取记录，请及时备份",
		"email.backup_reminder.body":        "当前共有 %d 条喜糖领取记录，建议尽快在管理后台创建备份或导出数据。",
		"email.backup_reminder.last_backup": "上次备份时间：%s",
		"email.backup_reminder.never":       "从未备份",
		"email.backup_reminder.tip":         "此邮件由系统自动发送，请勿直接回复。",
	},
	LocaleEN: {
		"error.bad_request":            "Invalid request parameters",
		"error.unauthorized":           "Not logged in or session invalid",
		"error.forbidden":              "Permission denied",
		"error.not_found":              "Resource not found",
		"error.internal_error":         "Internal server error",
		"error.jwt_secret_missing":     "JWT secret is not configured",
		"error.auth_header_missing":    "Missing Authorization header",
		"error.auth_header_invalid":    "Malformed Authorization header",
		"error.token_invalid":          "Invalid token",
		"error.session_expired":        "Session expired, please log in again",
		"error.rate_limited":           "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "Rate limiter unavailable",
		"error.form_invalid":           "Form validation failed",
		"error.recipient_required":     "Name and phone are required",
		"error.phone_duplicate":        "This phone number has already been submitted",
		"error.storage_full":           "Storage is full, save failed",
		"error.recipient_not_found":    "Recipient not found",
		"error.status_invalid":         "Invalid status or toggle not supported",
		"error.backup_not_found":       "No backup available",
		"error.backup_invalid":         "Malformed backup data",
		"error.import_invalid":         "Malformed import file",
		"error.export_format_invalid":  "Unsupported export format",
		"error.export_failed":          "Export failed",
		"error.login_invalid":          "Invalid username or password",
		"error.login_locked":           "Too many failed attempts, try again in 10 minutes",
		"error.password_old_invalid":   "Current password is incorrect",
		"error.password_invalid":       "Incorrect admin password",
		"error.password_min_length":    "Password must be at least %d characters",
		"error.captcha_required":       "Captcha is required",
		"error.captcha_invalid":        "Captcha is wrong or expired",
		"error.captcha_config_invalid": "Captcha is not enabled",
		"password.strength_weak":       "Weak",
		"password.strength_medium":     "Medium",
		"password.strength_strong":     "Strong",
		"message.submit_success":       "Submitted",
		"message.logout_success":       "Logged out",
		"message.password_changed":     "Password changed",
		"message.password_reset":       "Password reset to default",
		"message.backup_created":       "Backup created",
		"message.data_cleared":         "All records cleared",

		"email.backup_reminder.subject":     "Wedding candy: %d records collected, please back up",
		"email.backup_reminder.body":        "There are now %d candy recipient records. Please create a backup or export the data from the admin panel.",
		"email.backup_reminder.last_backup": "Last backup: %s",
		"email.backup_reminder.never":       "never",
		"email.backup_reminder.tip":         "This message was sent automatically. Please do not reply.",
	},
}
