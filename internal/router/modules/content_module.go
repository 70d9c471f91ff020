package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ortholink/ortholink-api/internal/container"
	"github.com/ortholink/ortholink-api/internal/interface/middleware"
)

// ContentHandler is the route surface every publishable content type exposes.
type ContentHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Update(c *gin.Context)
	Publish(c *gin.Context)
	Unpublish(c *gin.Context)
	SetStatus(c *gin.Context)
	Delete(c *gin.Context)
}

// ContentModule registers the standard content routes under a base path.
// Reads are public with an optional actor so owners see their drafts;
// writes require authentication.
type ContentModule struct {
	Base    string
	Handler ContentHandler
}

func NewContentModule(base string, h ContentHandler) *ContentModule {
	return &ContentModule{Base: base, Handler: h}
}

func (m *ContentModule) Register(rg *gin.RouterGroup) {
	registerContentRoutes(rg, m.Base, m.Handler)
}

func registerContentRoutes(rg *gin.RouterGroup, base string, h ContentHandler) {
	pub := publicReadGroup(rg)
	pub.GET(base, h.List)
	pub.GET(base+"/:id", h.Get)

	auth := protectedGroup(rg)
	auth.POST(base, h.Create)
	auth.PUT(base+"/:id", h.Update)
	auth.POST(base+"/:id/publish", h.Publish)
	auth.POST(base+"/:id/unpublish", h.Unpublish)
	auth.PATCH(base+"/:id/status", h.SetStatus)
	auth.DELETE(base+"/:id", h.Delete)
}

// publicReadGroup applies the optional actor and a per-IP read limiter.
func publicReadGroup(rg *gin.RouterGroup) *gin.RouterGroup {
	g := rg.Group("/")
	g.Use(
		middleware.OptionalAuth(container.GetJWT()),
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
	)
	return g
}

// protectedGroup requires a live session and limits per IP and per user.
func protectedGroup(rg *gin.RouterGroup) *gin.RouterGroup {
	g := rg.Group("/")
	g.Use(middleware.Auth(container.GetRedis(), container.GetJWT()))
	g.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	return g
}
