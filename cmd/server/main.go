package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/wedding-candy/internal/app"
	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiBlue      = "\033[34m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

var serveMode string

var rootCmd = &cobra.Command{
	Use:   "wedding-candy",
	Short: "喜糖领取登记服务",
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		mode, err := app.ParseMode(serveMode)
		if err != nil {
			return err
		}
		serveMode = mode
		return nil
	},
	RunE: runServer,
}

func main() {
	rootCmd.Flags().StringVar(&serveMode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if isWeakSecret(cfg.JWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			return errors.New("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	defer func() { _ = models.CloseDB() }()

	// 自动迁移数据库表（存储槽位与审计日志）
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	if cfg.Server.Mode == "release" {
		if cfg.Admin.Password == "wedding2024" {
			stdLog.Printf("警告: 管理员密码仍为默认值，请通过 admin.password 或 ADMIN_PASSWORD 修改")
		}
		gin.SetMode(gin.ReleaseMode)
	}

	return app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    serveMode,
	})
}

func printStartupBanner() {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║              🍬 Wedding Candy API 启动中                 ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "  喜糖领取登记 · 后台管理 · 数据导出与备份" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "Endpoints" + ansiReset)
	fmt.Println(ansiBlue + "• Public:  /api/v1/public" + ansiReset)
	fmt.Println(ansiBlue + "• Admin:   /api/v1/admin" + ansiReset)
	fmt.Println(ansiBlue + "• Health:  /health" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
