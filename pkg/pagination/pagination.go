package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params carries the page window and sort for list endpoints.
type Params struct {
	Page  int
	Limit int
	Sort  string
	Order string // asc or desc
}

// Meta is the page-window block returned alongside list data.
// Offset pages shift under concurrent inserts/deletes; acceptable for
// back-office and public listings.
type Meta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// FromQuery reads page/limit/sort/order from the request query.
// sortable maps allowed sort keys to column names; defaultSort is used when
// the key is absent or not allowed.
func FromQuery(c *gin.Context, sortable map[string]string, defaultSort, defaultOrder string) Params {
	p := Params{
		Page:  atoiDefault(c.Query("page"), 1),
		Limit: atoiDefault(c.Query("limit"), DefaultLimit),
		Sort:  defaultSort,
		Order: defaultOrder,
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if col, ok := sortable[c.Query("sort")]; ok {
		p.Sort = col
	}
	switch strings.ToLower(c.Query("order")) {
	case "asc":
		p.Order = "asc"
	case "desc":
		p.Order = "desc"
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderBy renders the SQL ORDER BY fragment for the validated sort column.
func (p Params) OrderBy() string {
	dir := "DESC"
	if p.Order == "asc" {
		dir = "ASC"
	}
	return p.Sort + " " + dir
}

// NewMeta computes the page window for a total row count.
func NewMeta(p Params, total int64) Meta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1 && total > 0,
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
