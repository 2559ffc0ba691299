package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// DefaultPerPage is the backend's page size for the transaction list
const DefaultPerPage = 20

// Meta represents pagination metadata of the rendered table
type Meta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	PrevPage   int  `json:"prev_page"`
	NextPage   int  `json:"next_page"`
}

// NewMeta calculates pagination metadata for page of totalPages
func NewMeta(page, totalPages, perPage int) Meta {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return Meta{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
}

// RowNumber is the 1-based table row number of index on page
func RowNumber(page, perPage, index int) int {
	return (page-1)*perPage + index + 1
}

// RequestedPage reads the `page` query parameter. It returns 0 when the
// parameter is absent or not a number, meaning "stay on the current page".
func RequestedPage(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 0
	}
	return page
}
