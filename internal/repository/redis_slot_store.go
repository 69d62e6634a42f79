package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSlotTimeout = 3 * time.Second

// RedisSlotStore 基于 Redis 字符串的槽位存储
type RedisSlotStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSlotStore 创建 Redis 槽位存储
func NewRedisSlotStore(client *redis.Client, prefix string) *RedisSlotStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "wc"
	}
	return &RedisSlotStore{client: client, prefix: prefix + ":slot:"}
}

// Get 读取槽位
func (s *RedisSlotStore) Get(key string) ([]byte, bool, error) {
	ctx, cancel := s.context()
	defer cancel()
	value, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set 写入槽位（不过期）
func (s *RedisSlotStore) Set(key string, value []byte) error {
	ctx, cancel := s.context()
	defer cancel()
	return s.client.Set(ctx, s.buildKey(key), value, 0).Err()
}

// Remove 删除槽位
func (s *RedisSlotStore) Remove(key string) error {
	ctx, cancel := s.context()
	defer cancel()
	return s.client.Del(ctx, s.buildKey(key)).Err()
}

// Keys 按前缀列出槽位键
func (s *RedisSlotStore) Keys(prefix string) ([]string, error) {
	ctx, cancel := s.context()
	defer cancel()
	keys := make([]string, 0)
	iter := s.client.Scan(ctx, 0, s.buildKey(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan redis slots failed: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Usage 统计已用字节数（键 + 值）
func (s *RedisSlotStore) Usage() (int64, error) {
	keys, err := s.Keys("")
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	ctx, cancel := s.context()
	defer cancel()
	pipe := s.client.Pipeline()
	lengths := make([]*redis.IntCmd, 0, len(keys))
	for _, key := range keys {
		lengths = append(lengths, pipe.StrLen(ctx, s.buildKey(key)))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	var total int64
	for i, cmd := range lengths {
		total += int64(len(keys[i])) + cmd.Val()
	}
	return total, nil
}

func (s *RedisSlotStore) buildKey(key string) string {
	return s.prefix + key
}

func (s *RedisSlotStore) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisSlotTimeout)
}
