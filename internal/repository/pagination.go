package repository

import "gorm.io/gorm"

// 列表分页默认值与上限，handler、service 与 repository 共用
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePage 页码至少为 1，page_size 非正时取默认值，超过上限时截断
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// applyPagination 按归一化后的参数追加 LIMIT/OFFSET
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil {
		return query
	}
	page, pageSize = NormalizePage(page, pageSize)
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
