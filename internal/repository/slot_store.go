package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrQuotaExceeded 存储容量不足
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrSlotCorrupt 槽位内容无法解析（与后端读取失败区分）
	ErrSlotCorrupt = errors.New("slot data corrupt")
)

// SlotStore 键值槽位存储接口（值为 JSON 文本）
type SlotStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
	Usage() (int64, error)
}

// GetJSON 读取槽位并反序列化，未命中返回 false
// 解析失败返回 ErrSlotCorrupt，后端读取错误原样返回
func GetJSON(store SlotStore, key string, dest interface{}) (bool, error) {
	if store == nil {
		return false, errors.New("slot store is nil")
	}
	raw, ok, err := store.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%w: decode slot %s: %v", ErrSlotCorrupt, key, err)
	}
	return true, nil
}

// SetJSON 序列化后写入槽位
func SetJSON(store SlotStore, key string, value interface{}) error {
	if store == nil {
		return errors.New("slot store is nil")
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s failed: %w", key, err)
	}
	return store.Set(key, payload)
}

// MemorySlotStore 内存槽位存储
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemorySlotStore 创建内存槽位存储
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string][]byte)}
}

// Get 读取槽位
func (s *MemorySlotStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set 写入槽位
func (s *MemorySlotStore) Set(key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = stored
	return nil
}

// Remove 删除槽位
func (s *MemorySlotStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

// Keys 按前缀列出槽位键
func (s *MemorySlotStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.slots))
	for key := range s.slots {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Usage 统计已用字节数（键 + 值）
func (s *MemorySlotStore) Usage() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for key, value := range s.slots {
		total += int64(len(key) + len(value))
	}
	return total, nil
}

// QuotaSlotStore 带容量上限的槽位存储
// exempt 前缀的键照常计入用量，但写入不受上限约束
type QuotaSlotStore struct {
	inner    SlotStore
	capacity int64
	exempt   []string
}

// NewQuotaSlotStore 创建带容量上限的槽位存储，capacity<=0 表示不限制
func NewQuotaSlotStore(inner SlotStore, capacity int64, exemptPrefixes ...string) *QuotaSlotStore {
	return &QuotaSlotStore{inner: inner, capacity: capacity, exempt: exemptPrefixes}
}

func (s *QuotaSlotStore) isExempt(key string) bool {
	for _, prefix := range s.exempt {
		if prefix != "" && strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// Capacity 返回容量上限
func (s *QuotaSlotStore) Capacity() int64 {
	return s.capacity
}

// Get 读取槽位
func (s *QuotaSlotStore) Get(key string) ([]byte, bool, error) {
	return s.inner.Get(key)
}

// Set 写入槽位，超出容量时返回 ErrQuotaExceeded 且不落盘
func (s *QuotaSlotStore) Set(key string, value []byte) error {
	if s.capacity <= 0 || s.isExempt(key) {
		return s.inner.Set(key, value)
	}
	used, err := s.inner.Usage()
	if err != nil {
		return err
	}
	existing, ok, err := s.inner.Get(key)
	if err != nil {
		return err
	}
	next := used + int64(len(value))
	if ok {
		next -= int64(len(existing))
	} else {
		next += int64(len(key))
	}
	if next > s.capacity {
		return fmt.Errorf("%w: need %d bytes, capacity %d", ErrQuotaExceeded, next, s.capacity)
	}
	return s.inner.Set(key, value)
}

// Remove 删除槽位
func (s *QuotaSlotStore) Remove(key string) error {
	return s.inner.Remove(key)
}

// Keys 按前缀列出槽位键
func (s *QuotaSlotStore) Keys(prefix string) ([]string, error) {
	return s.inner.Keys(prefix)
}

// Usage 统计已用字节数
func (s *QuotaSlotStore) Usage() (int64, error) {
	return s.inner.Usage()
}
