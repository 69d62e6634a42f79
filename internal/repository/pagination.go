package repository

import "gorm.io/gorm"

// maxPageSize 单页上限，防止一次拉取全部审计日志
const maxPageSize = 200

// findPage 统计总数后按 id 倒序取一页，pageSize<=0 时返回全部
func findPage[T any](query *gorm.DB, page, pageSize int) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}
	if err := query.Order("id DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
