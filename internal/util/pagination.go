package util

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate clamps page/limit to sane values and returns the row offset
// together with the effective limit.
func Calculate(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset = (page - 1) * limit
	return offset, limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
