// file: internals/helpers/pagination.go
package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 200
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Paging struct {
	Page   int
	Limit  int
	Offset int
	Search string
}

// ResolvePaging lee ?page= & ?limit= (+ ?search= o alias ?q=) y normaliza.
func ResolvePaging(c *fiber.Ctx) Paging {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))
	if page < 1 {
		page = DefaultPage
	}

	limit, _ := strconv.Atoi(strings.TrimSpace(c.Query("limit", strconv.Itoa(DefaultLimit))))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	search := strings.TrimSpace(c.Query("search"))
	if search == "" {
		search = strings.TrimSpace(c.Query("q"))
	}

	return Paging{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: search,
	}
}

// BuildPagination calcula el total de páginas (ceil)
func BuildPagination(total int64, p Paging) Pagination {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
