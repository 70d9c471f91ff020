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

type TestimonialHandler struct {
	Svc    *app.TestimonialService
	Logger *logrus.Logger
}

func NewTestimonialHandler(svc *app.TestimonialService, logger *logrus.Logger) *TestimonialHandler {
	return &TestimonialHandler{Svc: svc, Logger: logger}
}

type testimonialCreateRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Quote      string `json:"quote" binding:"required"`
}

type testimonialUpdateRequest struct {
	AuthorName *string `json:"author_name"`
	Quote      *string `json:"quote"`
}

func testimonialView(tm *entity.Testimonial) gin.H {
	return gin.H{
		"id":           tm.ID,
		"author_name":  tm.AuthorName,
		"slug":         tm.Slug,
		"quote":        tm.Quote,
		"status":       tm.Status,
		"owner_id":     tm.OwnerID,
		"published_at": tm.PublishedAt,
		"created_at":   tm.CreatedAt,
		"updated_at":   tm.UpdatedAt,
	}
}

func testimonialViews(items []*entity.Testimonial) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, tm := range items {
		out = append(out, testimonialView(tm))
	}
	return out
}

func (h *TestimonialHandler) Create(c *gin.Context) {
	var req testimonialCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	tm, err := h.Svc.Create(c.Request.Context(), actorFromCtx(c), app.TestimonialInput{
		AuthorName: req.AuthorName,
		Quote:      req.Quote,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, testimonialView(tm), "testimonial created")
}

func (h *TestimonialHandler) Get(c *gin.Context) {
	tm, err := h.Svc.Get(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, testimonialView(tm), "testimonial")
}

func (h *TestimonialHandler) List(c *gin.Context) {
	f := contentFilterFromQuery(c, contentSortable, "created_at")
	items, total, err := h.Svc.List(c.Request.Context(), actorFromCtx(c), f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, testimonialViews(items), pagination.NewMeta(f.Page, total), "testimonials")
}

func (h *TestimonialHandler) Update(c *gin.Context) {
	var req testimonialUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	tm, err := h.Svc.Update(c.Request.Context(), actorFromCtx(c), c.Param("id"), app.TestimonialUpdate{
		AuthorName: req.AuthorName,
		Quote:      req.Quote,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, testimonialView(tm), "testimonial updated")
}

// Approve publishes a testimonial; the route sits behind the admin guard.
func (h *TestimonialHandler) Approve(c *gin.Context) {
	tm, err := h.Svc.Approve(c.Request.Context(), actorFromCtx(c), c.Param("id"), publishedAtFromBody(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, testimonialView(tm), "testimonial approved")
}

func (h *TestimonialHandler) Unpublish(c *gin.Context) {
	tm, err := h.Svc.Unpublish(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, testimonialView(tm), "testimonial unpublished")
}

func (h *TestimonialHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actorFromCtx(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "testimonial deleted")
}
