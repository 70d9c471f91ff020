package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ortholink/ortholink-api/internal/container"
	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
	"github.com/ortholink/ortholink-api/internal/interface/middleware"
)

// MediaModule registers the direct upload endpoint. Uploads are throttled
// harder than regular writes.
type MediaModule struct {
	Handler *handlers.MediaHandler
}

func NewMediaModule(h *handlers.MediaHandler) *MediaModule {
	return &MediaModule{Handler: h}
}

func (m *MediaModule) Register(rg *gin.RouterGroup) {
	uploadLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)

	auth := protectedGroup(rg)
	auth.POST("/media", uploadLimiter, m.Handler.Upload)
}
