package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/wedding-candy/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Export   ExportConfig   `mapstructure:"export"`
	Email    EmailConfig    `mapstructure:"email"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   string `mapstructure:"port"`
	Mode                   string `mapstructure:"mode"` // debug / release
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds"` // 导出大文件时需留足时间
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

// Addr 监听地址
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Level:      c.Level,
		Console:    c.Console,
	}
}

// StorageConfig 键值槽位存储配置
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`         // memory / database / redis
	KeyPrefix     string `mapstructure:"key_prefix"`     // 槽位键前缀
	CapacityBytes int64  `mapstructure:"capacity_bytes"` // 容量上限，<=0 表示不限制
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey string `mapstructure:"secret"`
}

// AdminConfig 管理员账号配置
type AdminConfig struct {
	Username              string              `mapstructure:"username"`
	Password              string              `mapstructure:"password"`
	SessionTimeoutMinutes int                 `mapstructure:"session_timeout_minutes"`
	Viewers               []AdminViewerConfig `mapstructure:"viewers"`
}

// AdminViewerConfig 只读查看账号
type AdminViewerConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"` // bcrypt 哈希
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit  RateLimitConfig `mapstructure:"login_rate_limit"`
	SubmitRateLimit RateLimitConfig `mapstructure:"submit_rate_limit"`
	Lockout         LockoutConfig   `mapstructure:"lockout"`
}

// RateLimitConfig 接口限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// LockoutConfig 登录失败锁定配置
type LockoutConfig struct {
	MaxAttempts   int `mapstructure:"max_attempts"`
	WindowMinutes int `mapstructure:"window_minutes"`
	KeepAttempts  int `mapstructure:"keep_attempts"`
}

// CaptchaConfig 验证码配置
type CaptchaConfig struct {
	Provider string             `mapstructure:"provider"` // none / image
	Scenes   CaptchaSceneConfig `mapstructure:"scenes"`
	Image    CaptchaImageConfig `mapstructure:"image"`
}

// CaptchaSceneConfig 验证码场景开关
type CaptchaSceneConfig struct {
	Login  bool `mapstructure:"login"`
	Submit bool `mapstructure:"submit"`
}

// CaptchaImageConfig 图片验证码配置
type CaptchaImageConfig struct {
	Length        int `mapstructure:"length"`
	Width         int `mapstructure:"width"`
	Height        int `mapstructure:"height"`
	NoiseCount    int `mapstructure:"noise_count"`
	ShowLine      int `mapstructure:"show_line"`
	ExpireSeconds int `mapstructure:"expire_seconds"`
	MaxStore      int `mapstructure:"max_store"`
}

// BackupConfig 备份配置
type BackupConfig struct {
	AutoIntervalHours    int `mapstructure:"auto_interval_hours"`
	CheckIntervalMinutes int `mapstructure:"check_interval_minutes"`
	ReminderThreshold    int `mapstructure:"reminder_threshold"`
	ReminderStep         int `mapstructure:"reminder_step"`
}

// EmailConfig 备份提醒邮件配置
type EmailConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	FromName string   `mapstructure:"from_name"`
	UseTLS   bool     `mapstructure:"use_tls"`
	UseSSL   bool     `mapstructure:"use_ssl"`
	To       []string `mapstructure:"to"`     // 收件人（新人邮箱）
	Locale   string   `mapstructure:"locale"` // 邮件语言
}

// ExportConfig 导出配置
type ExportConfig struct {
	HistoryLimit int `mapstructure:"history_limit"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	loadDotEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("./")    // 备用路径
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持
	viper.AutomaticEnv()                                   // 自动读取环境变量
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // 将 . 替换为 _ (例如 server.port -> SERVER_PORT)

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}

	return &cfg
}

// setDefaults 写入默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 60)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.level", "")
	v.SetDefault("log.console", false)
	v.SetDefault("storage.driver", "database")
	v.SetDefault("storage.key_prefix", "")
	v.SetDefault("storage.capacity_bytes", 5*1024*1024)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/wedding.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "wedding2024")
	v.SetDefault("admin.session_timeout_minutes", 120)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "wc")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 20)
	v.SetDefault("security.submit_rate_limit.window_seconds", 60)
	v.SetDefault("security.submit_rate_limit.max_attempts", 10)
	v.SetDefault("security.lockout.max_attempts", 5)
	v.SetDefault("security.lockout.window_minutes", 10)
	v.SetDefault("security.lockout.keep_attempts", 10)
	v.SetDefault("captcha.provider", "none")
	v.SetDefault("captcha.scenes.login", false)
	v.SetDefault("captcha.scenes.submit", false)
	v.SetDefault("captcha.image.length", 4)
	v.SetDefault("captcha.image.width", 240)
	v.SetDefault("captcha.image.height", 80)
	v.SetDefault("captcha.image.noise_count", 2)
	v.SetDefault("captcha.image.show_line", 2)
	v.SetDefault("captcha.image.expire_seconds", 300)
	v.SetDefault("captcha.image.max_store", 10240)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.port", 465)
	v.SetDefault("email.use_ssl", true)
	v.SetDefault("email.from_name", "喜糖登记")
	v.SetDefault("email.locale", "zh-CN")
	v.SetDefault("backup.auto_interval_hours", 24)
	v.SetDefault("backup.check_interval_minutes", 60)
	v.SetDefault("backup.reminder_threshold", 100)
	v.SetDefault("backup.reminder_step", 50)
	v.SetDefault("export.history_limit", 5)
}

// loadDotEnv 加载 .env 文件（存在时）
func loadDotEnv() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warnw("config_dotenv_load_failed", "file", path, "error", err)
			continue
		}
		logger.Infow("config_dotenv_loaded", "file", path)
		return
	}
}
