// file: internals/helpers/pagination.go
package helper

import (
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const DefaultPage = 1

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

var (
	DefaultOpts = Options{DefaultPerPage: 25, MaxPerPage: 200}
	AdminOpts   = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

type Params struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
}

func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }
func (p Params) Limit() int  { return p.PerPage }

// ParseFiber reads ?page= & ?per_page= (alias ?limit=) plus sort params and
// normalizes them against the preset.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	page := c.QueryInt("page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := c.QueryInt("per_page", 0)
	if per <= 0 {
		per = c.QueryInt("limit", opt.DefaultPerPage)
	}
	if per <= 0 {
		per = opt.DefaultPerPage
	}
	if per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}

	sortBy := strings.TrimSpace(c.Query("sort_by", defaultSortBy))
	order := strings.ToLower(strings.TrimSpace(c.Query("order", defaultSortOrder)))
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return Params{Page: page, PerPage: per, SortBy: sortBy, SortOrder: order}
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func BuildPagination(p Params, total int64) Pagination {
	pages := 0
	if p.PerPage > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}
	return Pagination{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}
