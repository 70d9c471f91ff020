package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
)

// DirectoryModule registers the practice directory. The map listing and the
// detail view are public; owners manage their practice behind auth.
type DirectoryModule struct {
	Handler *handlers.DirectoryHandler
}

func NewDirectoryModule(h *handlers.DirectoryHandler) *DirectoryModule {
	return &DirectoryModule{Handler: h}
}

func (m *DirectoryModule) Register(rg *gin.RouterGroup) {
	pub := publicReadGroup(rg)
	pub.GET("/practices", m.Handler.List)

	auth := protectedGroup(rg)
	auth.GET("/practices/me", m.Handler.GetMine)
	auth.POST("/practices", m.Handler.Create)
	auth.PUT("/practices/:id", m.Handler.Update)
	auth.DELETE("/practices/:id", m.Handler.Delete)

	// The static /practices/me segment takes priority over the param route.
	pub.GET("/practices/:id", m.Handler.Get)
}
