package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/ortholink/ortholink-api/internal/application"
	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/pkg/pagination"
	"github.com/ortholink/ortholink-api/pkg/response"
	"github.com/ortholink/ortholink-api/pkg/validation"
)

// 10 MB cap on course media uploads.
const maxCoverBytes = 10 << 20

type CourseHandler struct {
	Svc    *app.CourseService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *app.CourseService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Logger: logger}
}

var courseSortable = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"title":        "title",
	"views":        "view_count",
	"price":        "price",
}

type courseCreateRequest struct {
	Title          string  `json:"title" binding:"required"`
	Slug           string  `json:"slug" binding:"omitempty,slug"`
	Summary        string  `json:"summary"`
	Body           string  `json:"body"`
	Category       string  `json:"category"`
	CoverURL       string  `json:"cover_url" binding:"omitempty,url"`
	Price          float64 `json:"price" binding:"gte=0"`
	MaxEnrollments *int    `json:"max_enrollments" binding:"omitempty,gt=0"`
}

type courseUpdateRequest struct {
	Title          *string  `json:"title"`
	Slug           *string  `json:"slug" binding:"omitempty,slug"`
	Summary        *string  `json:"summary"`
	Body           *string  `json:"body"`
	Category       *string  `json:"category"`
	CoverURL       *string  `json:"cover_url" binding:"omitempty,url"`
	Price          *float64 `json:"price" binding:"omitempty,gte=0"`
	MaxEnrollments *int     `json:"max_enrollments" binding:"omitempty,gt=0"`
	ClearLimit     bool     `json:"clear_limit"`
}

func courseView(co *entity.Course) gin.H {
	return gin.H{
		"id":               co.ID,
		"title":            co.Title,
		"slug":             co.Slug,
		"summary":          co.Summary,
		"body":             co.Body,
		"category":         co.Category,
		"cover_url":        co.CoverURL,
		"price":            co.Price,
		"max_enrollments":  co.MaxEnrollments,
		"enrollment_count": co.EnrollmentCount,
		"status":           co.Status,
		"owner_id":         co.OwnerID,
		"view_count":       co.ViewCount,
		"published_at":     co.PublishedAt,
		"created_at":       co.CreatedAt,
		"updated_at":       co.UpdatedAt,
	}
}

func courseViews(items []*entity.Course) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, co := range items {
		out = append(out, courseView(co))
	}
	return out
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req courseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	co, err := h.Svc.Create(c.Request.Context(), actorFromCtx(c), app.CourseInput{
		Title:          req.Title,
		Slug:           req.Slug,
		Summary:        req.Summary,
		Body:           req.Body,
		Category:       req.Category,
		CoverURL:       req.CoverURL,
		Price:          req.Price,
		MaxEnrollments: req.MaxEnrollments,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, courseView(co), "course created")
}

func (h *CourseHandler) Get(c *gin.Context) {
	co, err := h.Svc.Get(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseView(co), "course")
}

func (h *CourseHandler) List(c *gin.Context) {
	f := contentFilterFromQuery(c, courseSortable, "created_at")
	items, total, err := h.Svc.List(c.Request.Context(), actorFromCtx(c), f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, courseViews(items), pagination.NewMeta(f.Page, total), "courses")
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	co, err := h.Svc.Update(c.Request.Context(), actorFromCtx(c), c.Param("id"), app.CourseUpdate{
		Title:          req.Title,
		Slug:           req.Slug,
		Summary:        req.Summary,
		Body:           req.Body,
		Category:       req.Category,
		CoverURL:       req.CoverURL,
		Price:          req.Price,
		MaxEnrollments: req.MaxEnrollments,
		ClearLimit:     req.ClearLimit,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseView(co), "course updated")
}

func (h *CourseHandler) Publish(c *gin.Context) {
	co, err := h.Svc.Publish(c.Request.Context(), actorFromCtx(c), c.Param("id"), publishedAtFromBody(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseView(co), "course published")
}

func (h *CourseHandler) Unpublish(c *gin.Context) {
	co, err := h.Svc.Unpublish(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseView(co), "course unpublished")
}

func (h *CourseHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	co, err := h.Svc.SetStatus(c.Request.Context(), actorFromCtx(c), c.Param("id"),
		entity.PublicationStatus(req.Status))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, courseView(co), "course status updated")
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actorFromCtx(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "course deleted")
}

// UploadCover accepts the media file and returns immediately; the upload and
// the cover patch happen in the background.
func (h *CourseHandler) UploadCover(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file", nil)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxCoverBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	if len(data) > maxCoverBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}

	err = h.Svc.AttachCoverAsync(c.Request.Context(), actorFromCtx(c), c.Param("id"),
		data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"queued": true}, "cover upload queued")
}
