package repository

import (
	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/models"
)

// RecipientRepository 领取记录持久化接口（整表读写）
type RecipientRepository interface {
	Load() ([]models.Recipient, error)
	Save(recipients []models.Recipient) error
}

// SlotRecipientRepository 基于槽位存储的领取记录仓库
type SlotRecipientRepository struct {
	store SlotStore
	key   string
}

// NewRecipientRepository 创建领取记录仓库
func NewRecipientRepository(store SlotStore) *SlotRecipientRepository {
	return &SlotRecipientRepository{store: store, key: constants.SlotRecipients}
}

// Load 读取全部记录（新记录在前），槽位为空时返回空列表
func (r *SlotRecipientRepository) Load() ([]models.Recipient, error) {
	recipients := make([]models.Recipient, 0)
	if _, err := GetJSON(r.store, r.key, &recipients); err != nil {
		return nil, err
	}
	if recipients == nil {
		recipients = make([]models.Recipient, 0)
	}
	return recipients, nil
}

// Save 整体写入全部记录
func (r *SlotRecipientRepository) Save(recipients []models.Recipient) error {
	if recipients == nil {
		recipients = make([]models.Recipient, 0)
	}
	return SetJSON(r.store, r.key, recipients)
}

// BackupRepository 备份快照持久化接口
type BackupRepository interface {
	GetSnapshot() (*models.BackupSnapshot, error)
	SaveSnapshot(snapshot *models.BackupSnapshot) error
	GetMeta() (*models.BackupMeta, error)
	SaveMeta(meta *models.BackupMeta) error
}

// SlotBackupRepository 基于槽位存储的备份仓库
type SlotBackupRepository struct {
	store SlotStore
}

// NewBackupRepository 创建备份仓库
func NewBackupRepository(store SlotStore) *SlotBackupRepository {
	return &SlotBackupRepository{store: store}
}

// GetSnapshot 读取备份快照，不存在返回 nil
func (r *SlotBackupRepository) GetSnapshot() (*models.BackupSnapshot, error) {
	var snapshot models.BackupSnapshot
	ok, err := GetJSON(r.store, constants.SlotRecipientsBackup, &snapshot)
	if err != nil || !ok {
		return nil, err
	}
	return &snapshot, nil
}

// SaveSnapshot 写入备份快照
func (r *SlotBackupRepository) SaveSnapshot(snapshot *models.BackupSnapshot) error {
	return SetJSON(r.store, constants.SlotRecipientsBackup, snapshot)
}

// GetMeta 读取备份元信息，不存在时返回零值
func (r *SlotBackupRepository) GetMeta() (*models.BackupMeta, error) {
	meta := &models.BackupMeta{}
	if _, err := GetJSON(r.store, constants.SlotBackupMeta, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// SaveMeta 写入备份元信息
func (r *SlotBackupRepository) SaveMeta(meta *models.BackupMeta) error {
	return SetJSON(r.store, constants.SlotBackupMeta, meta)
}
