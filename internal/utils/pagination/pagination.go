package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Pagination struct {
	Page    int
	PerPage int
	Offset  int
	Total   int64
}

// ParseFromRequest handles pagination parameters from Fiber context.
// Invalid or missing values fall back to page 1 / 20 per page.
func ParseFromRequest(c *fiber.Ctx) Pagination {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.Query("per_page", "20"))
	if err != nil || perPage < 1 {
		perPage = 20
	}
	return Pagination{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
	}
}

// Pages returns the page count, ceil(total / per_page).
func (p Pagination) Pages() int64 {
	if p.PerPage == 0 {
		return 0
	}
	return (p.Total + int64(p.PerPage) - 1) / int64(p.PerPage)
}

// Response creates a standardized pagination envelope.
func (p Pagination) Response() fiber.Map {
	return fiber.Map{
		"page":     p.Page,
		"per_page": p.PerPage,
		"total":    p.Total,
		"pages":    p.Pages(),
	}
}
