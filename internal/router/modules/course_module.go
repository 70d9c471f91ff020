package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
)

// CourseModule adds the cover upload on top of the standard content routes.
type CourseModule struct {
	Handler *handlers.CourseHandler
}

func NewCourseModule(h *handlers.CourseHandler) *CourseModule {
	return &CourseModule{Handler: h}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	registerContentRoutes(rg, "/courses", m.Handler)

	auth := protectedGroup(rg)
	auth.POST("/courses/:id/cover", m.Handler.UploadCover)
}
