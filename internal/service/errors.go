package service

import "errors"

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
	// ErrValidation 必填字段缺失
	ErrValidation = errors.New("姓名和手机号为必填项")
	// ErrDuplicatePhone 手机号已提交
	ErrDuplicatePhone = errors.New("该手机号已经提交过领取信息")
	// ErrStorage 存储写入失败（序列化失败或容量不足）
	ErrStorage = errors.New("存储空间不足，保存失败")
	// ErrInvalidStatus 状态值非法
	ErrInvalidStatus = errors.New("invalid status")

	// ErrFormInvalid 表单校验失败
	ErrFormInvalid = errors.New("form invalid")

	// ErrBackupNotFound 备份不存在
	ErrBackupNotFound = errors.New("backup not found")
	// ErrBackupInvalid 备份数据格式错误
	ErrBackupInvalid = errors.New("backup invalid")
	// ErrImportInvalid 导入数据格式错误
	ErrImportInvalid = errors.New("import invalid")
	// ErrExportFormatInvalid 导出格式不支持
	ErrExportFormatInvalid = errors.New("export format invalid")

	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	// ErrInvalidPassword 原密码错误
	ErrInvalidPassword = errors.New("原密码错误")
	// ErrWeakPassword 新密码不符合要求
	ErrWeakPassword = errors.New("密码长度至少6位")
	// ErrLoginLocked 登录失败次数过多
	ErrLoginLocked = errors.New("登录失败次数过多，请10分钟后再试")
	// ErrSessionInvalid 会话无效
	ErrSessionInvalid = errors.New("session invalid")
	// ErrSessionExpired 会话已过期
	ErrSessionExpired = errors.New("session expired")

	// ErrCaptchaRequired 缺少验证码
	ErrCaptchaRequired = errors.New("captcha required")
	// ErrCaptchaInvalid 验证码错误
	ErrCaptchaInvalid = errors.New("captcha invalid")
	// ErrCaptchaConfigInvalid 验证码配置错误
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	// ErrEmailServiceDisabled 邮件服务未启用
	ErrEmailServiceDisabled = errors.New("email service disabled")
	// ErrEmailServiceNotConfigured 邮件服务配置不完整
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	// ErrInvalidEmail 邮箱地址非法
	ErrInvalidEmail = errors.New("invalid email")
	// ErrEmailRecipientRejected 收件人被邮件服务器拒绝
	ErrEmailRecipientRejected = errors.New("email recipient rejected")
)
