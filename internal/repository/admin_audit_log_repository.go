package repository

import (
	"strings"

	"github.com/wedding-candy/internal/models"

	"gorm.io/gorm"
)

// AdminAuditLogRepository 后台审计日志数据访问接口
type AdminAuditLogRepository interface {
	Create(log *models.AdminAuditLog) error
	ListAdmin(filter AdminAuditLogListFilter) ([]models.AdminAuditLog, int64, error)
}

// GormAdminAuditLogRepository GORM 实现
type GormAdminAuditLogRepository struct {
	db *gorm.DB
}

// NewAdminAuditLogRepository 创建后台审计日志仓库
func NewAdminAuditLogRepository(db *gorm.DB) *GormAdminAuditLogRepository {
	return &GormAdminAuditLogRepository{db: db}
}

// Create 创建审计日志
func (r *GormAdminAuditLogRepository) Create(log *models.AdminAuditLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListAdmin 管理端查询审计日志
func (r *GormAdminAuditLogRepository) ListAdmin(filter AdminAuditLogListFilter) ([]models.AdminAuditLog, int64, error) {
	query := r.db.Model(&models.AdminAuditLog{})
	if filter.OperatorUsername != "" {
		query = query.Where("operator_username = ?", filter.OperatorUsername)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"target_id", "object", "request_id"})
		query = query.Where(condition, repeatLikeArgs("%"+keyword+"%", argCount)...)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	return findPage[models.AdminAuditLog](query, filter.Page, filter.PageSize)
}
