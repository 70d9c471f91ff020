package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	sortable := map[string]string{"createdAt": "created_at", "title": "title"}
	return FromQuery(c, sortable, "created_at", "desc")
}

func TestFromQueryDefaults(t *testing.T) {
	p := paramsFor(t, "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, "created_at DESC", p.OrderBy())
	assert.Equal(t, 0, p.Offset())
}

func TestFromQueryClamping(t *testing.T) {
	p := paramsFor(t, "page=0&limit=9999")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = paramsFor(t, "page=-3&limit=-1")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestFromQuerySortAllowlist(t *testing.T) {
	p := paramsFor(t, "sort=title&order=asc")
	assert.Equal(t, "title ASC", p.OrderBy())

	// unknown sort keys fall back to the default column
	p = paramsFor(t, "sort=password&order=asc")
	assert.Equal(t, "created_at ASC", p.OrderBy())
}

func TestOffset(t *testing.T) {
	p := paramsFor(t, "page=3&limit=25")
	assert.Equal(t, 50, p.Offset())
}

func TestNewMeta(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	m := NewMeta(p, 35)
	assert.Equal(t, int64(35), m.Total)
	assert.Equal(t, 4, m.TotalPages)
	assert.True(t, m.HasNextPage)
	assert.True(t, m.HasPrevPage)

	last := NewMeta(Params{Page: 4, Limit: 10}, 35)
	assert.False(t, last.HasNextPage)
	assert.True(t, last.HasPrevPage)

	empty := NewMeta(Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
	assert.False(t, empty.HasPrevPage)
}
