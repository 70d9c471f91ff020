package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
	"github.com/ortholink/ortholink-api/internal/interface/middleware"
)

// EnrollmentModule registers enrollment routes. Enrolling and the roster hang
// off the course path; the rest live under /enrollments. Everything requires
// authentication.
type EnrollmentModule struct {
	Handler *handlers.EnrollmentHandler
}

func NewEnrollmentModule(h *handlers.EnrollmentHandler) *EnrollmentModule {
	return &EnrollmentModule{Handler: h}
}

func (m *EnrollmentModule) Register(rg *gin.RouterGroup) {
	auth := protectedGroup(rg)
	auth.POST("/courses/:id/enroll", m.Handler.Enroll)
	auth.GET("/courses/:id/enrollments", m.Handler.ListForCourse)

	auth.GET("/enrollments", m.Handler.ListMine)
	auth.GET("/enrollments/:id", m.Handler.Get)
	auth.PATCH("/enrollments/:id/progress", m.Handler.UpdateProgress)
	auth.POST("/enrollments/:id/cancel", m.Handler.Cancel)

	admin := auth.Group("/")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/enrollments/:id/refund", m.Handler.Refund)
}
