package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/wedding-candy/internal/http/response"
	"github.com/wedding-candy/internal/i18n"
	"github.com/wedding-candy/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

// RateLimiter 固定窗口计数器，返回窗口内已计次数与剩余时间
type RateLimiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// NewRateLimiter Redis 可用时使用 Redis 计数，否则退回进程内计数
func NewRateLimiter(client *redis.Client) RateLimiter {
	if client != nil {
		return &redisRateLimiter{client: client}
	}
	return newMemoryRateLimiter(time.Now)
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

type redisRateLimiter struct {
	client *redis.Client
}

func (l *redisRateLimiter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	result, err := rateLimitScript.Run(ctx, l.client, []string{key}, int(window/time.Second)).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, errors.New("unexpected rate limit script result")
	}
	count, ok := toInt64(values[0])
	if !ok {
		return 0, 0, errors.New("unexpected rate limit counter")
	}
	ttlSeconds, _ := toInt64(values[1])
	return count, time.Duration(ttlSeconds) * time.Second, nil
}

// memoryPruneThreshold 超过该数量的窗口时清理过期项
const memoryPruneThreshold = 1024

type memoryWindow struct {
	count     int64
	expiresAt time.Time
}

type memoryRateLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]memoryWindow
}

func newMemoryRateLimiter(now func() time.Time) *memoryRateLimiter {
	return &memoryRateLimiter{now: now, windows: make(map[string]memoryWindow)}
}

func (l *memoryRateLimiter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.windows) > memoryPruneThreshold {
		for k, w := range l.windows {
			if !now.Before(w.expiresAt) {
				delete(l.windows, k)
			}
		}
	}
	current, ok := l.windows[key]
	if !ok || !now.Before(current.expiresAt) {
		current = memoryWindow{expiresAt: now.Add(window)}
	}
	current.count++
	l.windows[key] = current
	return current.count, current.expiresAt.Sub(now), nil
}

// RateLimitMiddleware 频率限制中间件（同一 key 在窗口内超过上限返回 429）
func RateLimitMiddleware(limiter RateLimiter, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}

		window := time.Duration(rule.WindowSeconds) * time.Second
		count, ttl, err := limiter.Hit(c.Request.Context(), key, window)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			msg := i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable")
			response.Error(c, response.CodeInternal, msg)
			c.Abort()
			return
		}
		if count > int64(rule.MaxRequests) {
			waitSeconds := int(ttl / time.Second)
			if waitSeconds < 1 {
				waitSeconds = rule.WindowSeconds
			}
			msgKey := strings.TrimSpace(rule.MessageKey)
			if msgKey == "" {
				msgKey = "error.rate_limited"
			}
			msg := i18n.Sprintf(i18n.ResolveLocale(c), msgKey, waitSeconds)
			response.Error(c, response.CodeTooManyRequests, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用 IP + JSON 字段作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	value, ok := payload[field]
	if !ok {
		return ""
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
