package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/ortholink/ortholink-api/internal/application"
	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/pkg/pagination"
	"github.com/ortholink/ortholink-api/pkg/response"
	"github.com/ortholink/ortholink-api/pkg/validation"
)

type EnrollmentHandler struct {
	Svc    *app.EnrollmentService
	Logger *logrus.Logger
}

func NewEnrollmentHandler(svc *app.EnrollmentService, logger *logrus.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{Svc: svc, Logger: logger}
}

var enrollmentSortable = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"progress":   "progress",
}

type progressRequest struct {
	Progress *int `json:"progress" binding:"required,progress"`
}

func enrollmentView(e *entity.Enrollment) gin.H {
	return gin.H{
		"id":           e.ID,
		"user_id":      e.UserID,
		"course_id":    e.CourseID,
		"status":       e.Status,
		"progress":     e.Progress,
		"amount_paid":  e.AmountPaid,
		"completed_at": e.CompletedAt,
		"created_at":   e.CreatedAt,
		"updated_at":   e.UpdatedAt,
	}
}

func enrollmentViews(items []*entity.Enrollment) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, e := range items {
		out = append(out, enrollmentView(e))
	}
	return out
}

// Enroll admits the caller into the course in the path.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	e, err := h.Svc.Enroll(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, enrollmentView(e), "enrolled")
}

func (h *EnrollmentHandler) Get(c *gin.Context) {
	e, err := h.Svc.Get(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, enrollmentView(e), "enrollment")
}

func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	p := pagination.FromQuery(c, enrollmentSortable, "created_at", "desc")
	items, total, err := h.Svc.ListMine(c.Request.Context(), actorFromCtx(c), p)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, enrollmentViews(items), pagination.NewMeta(p, total), "my enrollments")
}

// ListForCourse is the course owner's roster view.
func (h *EnrollmentHandler) ListForCourse(c *gin.Context) {
	p := pagination.FromQuery(c, enrollmentSortable, "created_at", "desc")
	items, total, err := h.Svc.ListForCourse(c.Request.Context(), actorFromCtx(c), c.Param("id"), p)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, enrollmentViews(items), pagination.NewMeta(p, total), "course enrollments")
}

func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := h.Svc.UpdateProgress(c.Request.Context(), actorFromCtx(c), c.Param("id"), *req.Progress)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, enrollmentView(e), "progress updated")
}

// Refund releases the seat on an admin's authority.
func (h *EnrollmentHandler) Refund(c *gin.Context) {
	e, err := h.Svc.Refund(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, enrollmentView(e), "enrollment refunded")
}

func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	e, err := h.Svc.Cancel(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, enrollmentView(e), "enrollment cancelled")
}
