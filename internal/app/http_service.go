package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wedding-candy/internal/config"
)

// HTTPService HTTP 服务封装
type HTTPService struct {
	name   string
	server *http.Server
}

// NewHTTPService 按服务器配置创建 HTTP 服务
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	readTimeout := secondsOr(cfg.ReadTimeoutSeconds, 15)
	return &HTTPService{
		name: "http",
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: readTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      secondsOr(cfg.WriteTimeoutSeconds, 60),
		},
	}
}

func secondsOr(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}

// Name 服务名称
func (s *HTTPService) Name() string {
	if s == nil || s.name == "" {
		return "http"
	}
	return s.name
}

// Addr 监听地址
func (s *HTTPService) Addr() string {
	if s == nil || s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Start 启动服务，ctx 取消时由 Runner 调用 Stop 关闭
func (s *HTTPService) Start(_ context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 优雅关闭，等待进行中的导出请求完成
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
