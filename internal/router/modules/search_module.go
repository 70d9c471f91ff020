package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ortholink/ortholink-api/internal/container"
	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
	"github.com/ortholink/ortholink-api/internal/interface/middleware"
)

// SearchModule exposes the public full-text search endpoint.
type SearchModule struct {
	Handler *handlers.SearchHandler
}

func NewSearchModule(h *handlers.SearchHandler) *SearchModule {
	return &SearchModule{Handler: h}
}

func (m *SearchModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/search", searchLimiter, m.Handler.Search)
}
