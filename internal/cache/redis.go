package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wedding-candy/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "wc"

// 进程内共享的 Redis 连接，限流与槽位存储共用
var (
	mu     sync.RWMutex
	client *redis.Client
	prefix = defaultPrefix
)

// InitRedis 初始化 Redis 客户端，未启用时保持禁用状态
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		UseClient(nil, "")
		return nil
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	UseClient(redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}), cfg.Prefix)
	return nil
}

// UseClient 直接注入客户端（测试或嵌入场景），nil 表示禁用
func UseClient(c *redis.Client, keyPrefix string) {
	mu.Lock()
	defer mu.Unlock()
	client = c
	prefix = strings.Trim(strings.TrimSpace(keyPrefix), ":")
	if prefix == "" {
		prefix = defaultPrefix
	}
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return Client() != nil
}

// Client 获取 Redis 客户端，未启用时返回 nil
func Client() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// Prefix 获取键前缀
func Prefix() string {
	mu.RLock()
	defer mu.RUnlock()
	return prefix
}

// Key 拼接带前缀的键，如 Key("rate", "submit") => wc:rate:submit
func Key(parts ...string) string {
	return strings.Join(append([]string{Prefix()}, parts...), ":")
}

// Ping 检查 Redis 连通性
func Ping(ctx context.Context) error {
	c := Client()
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.Ping(ctx).Err()
}

// Close 关闭并禁用客户端
func Close() error {
	mu.Lock()
	c := client
	client = nil
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}
