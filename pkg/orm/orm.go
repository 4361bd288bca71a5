// Package orm provides query helpers shared by the service layer: clamped
// pagination and a cache-through read helper.
package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/voltmart/voltmart/pkg/cache"
)

// MaxPageSize is the server-side ceiling applied to every list endpoint,
// regardless of what the client asks for.
const MaxPageSize = 100

// Pagination describes one page of a result set.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ClampPage forces page into [1, ∞).
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampPageSize forces size into [1, MaxPageSize].
func ClampPageSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Paginate counts q, then fetches the requested page into dest. Page and
// pageSize are clamped server-side; the clamped values are echoed back in the
// returned Pagination so clients see what was actually applied.
func Paginate(q *gorm.DB, page, pageSize int, dest interface{}) (Pagination, error) {
	page = ClampPage(page)
	pageSize = ClampPageSize(pageSize)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Remember reads dest from the cache under key, falling back to fetch and
// storing the result for ttl. With no cache connected this degrades to a
// plain fetch.
func Remember(key string, ttl time.Duration, dest interface{}, fetch func() error) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	cache.Set(key, dest, ttl) //nolint:errcheck
	return nil
}
