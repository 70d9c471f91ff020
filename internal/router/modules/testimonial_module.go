package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
	"github.com/ortholink/ortholink-api/internal/interface/middleware"
)

// TestimonialModule differs from the standard content surface in that
// publication is an admin approval step.
type TestimonialModule struct {
	Handler *handlers.TestimonialHandler
}

func NewTestimonialModule(h *handlers.TestimonialHandler) *TestimonialModule {
	return &TestimonialModule{Handler: h}
}

func (m *TestimonialModule) Register(rg *gin.RouterGroup) {
	pub := publicReadGroup(rg)
	pub.GET("/testimonials", m.Handler.List)
	pub.GET("/testimonials/:id", m.Handler.Get)

	auth := protectedGroup(rg)
	auth.POST("/testimonials", m.Handler.Create)
	auth.PUT("/testimonials/:id", m.Handler.Update)
	auth.DELETE("/testimonials/:id", m.Handler.Delete)

	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/testimonials/:id/approve", m.Handler.Approve)
	admin.POST("/testimonials/:id/unpublish", m.Handler.Unpublish)
}
