package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/blog-in-go/pkg/apperr"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Pagination is a validated page request
type Pagination struct {
	Page int
	Size int
}

// ParsePagination reads page and size query values. Empty values take the
// defaults; anything below 1 or non-numeric is a validation error, as is a
// size above MaxSize or a page whose offset does not fit in an int.
func ParsePagination(page, size string) (Pagination, error) {
	p := Pagination{Page: DefaultPage, Size: DefaultSize}

	var err error
	if p.Page, err = parsePositive(page, DefaultPage); err != nil {
		return Pagination{}, err
	}
	if p.Size, err = parsePositive(size, DefaultSize); err != nil {
		return Pagination{}, err
	}
	if p.Size > MaxSize {
		return Pagination{}, apperr.Validation("size must not exceed %d", MaxSize)
	}
	if p.Page-1 > math.MaxInt/p.Size {
		return Pagination{}, apperr.Validation("page is out of range")
	}
	return p, nil
}

func parsePositive(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Validation("page and size must be greater than 0")
	}
	return n, nil
}

// Offset is the number of rows before this page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

// TotalPages is ceil(total / size)
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 || p.Size < 1 {
		return 0
	}
	size := int64(p.Size)
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return int(pages)
}

// Page is one page of a listing
type Page[T any] struct {
	List  []T   `json:"list"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}
