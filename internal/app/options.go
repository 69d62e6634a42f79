package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// ParseMode 校验启动模式，空值视为 all
func ParseMode(value string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(value))
	switch mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want all, api or worker)", value)
	}
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 && opts.Config != nil && opts.Config.Server.ShutdownTimeoutSeconds > 0 {
		opts.ShutdownTimeout = time.Duration(opts.Config.Server.ShutdownTimeoutSeconds) * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if mode, err := ParseMode(opts.Mode); err == nil {
		opts.Mode = mode
	}
	return opts
}
