// Package pagination parses page/limit query parameters and builds the
// paginated list envelope used by the list endpoints.
package pagination

import "github.com/gofiber/fiber/v2"

const (
	// DefaultLimit is the page size applied when none is requested.
	DefaultLimit = 20

	// MaxLimit caps the requested page size.
	MaxLimit = 100
)

// Params holds the sanitized pagination inputs for a list request.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// GetParams reads page and limit from the query string, clamping both
// to sane bounds.
func GetParams(c *fiber.Ctx) *Params {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", DefaultLimit)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Meta describes the position of a page within the full result set.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Response pairs one page of data with its metadata.
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta"`
}

// NewResponse wraps a page of results with metadata computed from the
// request params and the total row count.
func NewResponse(data interface{}, params *Params, total int64) *Response {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Response{
		Data: data,
		Meta: &Meta{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    params.Page < totalPages,
			HasPrev:    params.Page > 1,
		},
	}
}
