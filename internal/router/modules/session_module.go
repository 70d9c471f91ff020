package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
)

// SessionModule registers the live session routes and their lifecycle verbs.
type SessionModule struct {
	Handler *handlers.SessionHandler
}

func NewSessionModule(h *handlers.SessionHandler) *SessionModule {
	return &SessionModule{Handler: h}
}

func (m *SessionModule) Register(rg *gin.RouterGroup) {
	pub := publicReadGroup(rg)
	pub.GET("/sessions", m.Handler.List)
	pub.GET("/sessions/:id", m.Handler.Get)

	auth := protectedGroup(rg)
	auth.POST("/sessions", m.Handler.Create)
	auth.PUT("/sessions/:id", m.Handler.Update)
	auth.POST("/sessions/:id/start", m.Handler.Start)
	auth.POST("/sessions/:id/end", m.Handler.End)
	auth.POST("/sessions/:id/cancel", m.Handler.Cancel)
	auth.POST("/sessions/:id/postpone", m.Handler.Postpone)
	auth.POST("/sessions/:id/reschedule", m.Handler.Reschedule)
	auth.DELETE("/sessions/:id", m.Handler.Delete)
}
