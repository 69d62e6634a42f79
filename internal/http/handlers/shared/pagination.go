package shared

import "github.com/wedding-candy/internal/http/response"

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// PageBounds 计算切片分页的起止下标。
func PageBounds(total, page, pageSize int) (int, int) {
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

// BuildPagination 构造分页信息。
func BuildPagination(page, pageSize, total int) response.Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = int64((total + pageSize - 1) / pageSize)
	}
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     int64(total),
		TotalPage: totalPage,
	}
}
