package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/wedding-candy/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSlotStore 基于数据库表的槽位存储
type GormSlotStore struct {
	db     *gorm.DB
	prefix string
}

// NewSlotRepository 创建数据库槽位存储
func NewSlotRepository(db *gorm.DB, prefix string) *GormSlotStore {
	return &GormSlotStore{db: db, prefix: strings.TrimSpace(prefix)}
}

// Get 读取槽位
func (r *GormSlotStore) Get(key string) ([]byte, bool, error) {
	var slot models.StorageSlot
	if err := r.db.Where("key = ?", r.buildKey(key)).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(slot.Value), true, nil
}

// Set 写入槽位（存在则覆盖）
func (r *GormSlotStore) Set(key string, value []byte) error {
	slot := models.StorageSlot{
		Key:       r.buildKey(key),
		Value:     string(value),
		Size:      int64(len(key) + len(value)),
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "size", "updated_at"}),
	}).Create(&slot).Error
}

// Remove 删除槽位
func (r *GormSlotStore) Remove(key string) error {
	return r.db.Where("key = ?", r.buildKey(key)).Delete(&models.StorageSlot{}).Error
}

// Keys 按前缀列出槽位键
func (r *GormSlotStore) Keys(prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := r.db.Model(&models.StorageSlot{}).
		Where("key LIKE ? ESCAPE '\\'", escapeLike(r.buildKey(prefix))+"%").
		Order("key ASC").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	for i, key := range keys {
		keys[i] = strings.TrimPrefix(key, r.prefix)
	}
	return keys, nil
}

// Usage 统计已用字节数
func (r *GormSlotStore) Usage() (int64, error) {
	var total int64
	query := r.db.Model(&models.StorageSlot{})
	if r.prefix != "" {
		query = query.Where("key LIKE ? ESCAPE '\\'", escapeLike(r.prefix)+"%")
	}
	if err := query.Select("COALESCE(SUM(size), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormSlotStore) buildKey(key string) string {
	return r.prefix + key
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer("%", "\\%", "_", "\\_")
	return replacer.Replace(value)
}
