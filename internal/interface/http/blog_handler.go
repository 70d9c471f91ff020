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

type BlogHandler struct {
	Svc    *app.BlogService
	Logger *logrus.Logger
}

func NewBlogHandler(svc *app.BlogService, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Svc: svc, Logger: logger}
}

type blogCreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Slug     string `json:"slug" binding:"omitempty,slug"`
	Excerpt  string `json:"excerpt"`
	Body     string `json:"body"`
	Category string `json:"category"`
	CoverURL string `json:"cover_url" binding:"omitempty,url"`
}

type blogUpdateRequest struct {
	Title    *string `json:"title"`
	Slug     *string `json:"slug" binding:"omitempty,slug"`
	Excerpt  *string `json:"excerpt"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
	CoverURL *string `json:"cover_url" binding:"omitempty,url"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func blogView(b *entity.Blog) gin.H {
	return gin.H{
		"id":           b.ID,
		"title":        b.Title,
		"slug":         b.Slug,
		"excerpt":      b.Excerpt,
		"body":         b.Body,
		"category":     b.Category,
		"cover_url":    b.CoverURL,
		"status":       b.Status,
		"owner_id":     b.OwnerID,
		"view_count":   b.ViewCount,
		"published_at": b.PublishedAt,
		"created_at":   b.CreatedAt,
		"updated_at":   b.UpdatedAt,
	}
}

func blogViews(items []*entity.Blog) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, b := range items {
		out = append(out, blogView(b))
	}
	return out
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req blogCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), actorFromCtx(c), app.BlogInput{
		Title:    req.Title,
		Slug:     req.Slug,
		Excerpt:  req.Excerpt,
		Body:     req.Body,
		Category: req.Category,
		CoverURL: req.CoverURL,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, blogView(b), "blog created")
}

func (h *BlogHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, blogView(b), "blog")
}

func (h *BlogHandler) List(c *gin.Context) {
	f := contentFilterFromQuery(c, contentSortable, "created_at")
	items, total, err := h.Svc.List(c.Request.Context(), actorFromCtx(c), f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, blogViews(items), pagination.NewMeta(f.Page, total), "blogs")
}

func (h *BlogHandler) Update(c *gin.Context) {
	var req blogUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), actorFromCtx(c), c.Param("id"), app.BlogUpdate{
		Title:    req.Title,
		Slug:     req.Slug,
		Excerpt:  req.Excerpt,
		Body:     req.Body,
		Category: req.Category,
		CoverURL: req.CoverURL,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, blogView(b), "blog updated")
}

func (h *BlogHandler) Publish(c *gin.Context) {
	b, err := h.Svc.Publish(c.Request.Context(), actorFromCtx(c), c.Param("id"), publishedAtFromBody(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, blogView(b), "blog published")
}

func (h *BlogHandler) Unpublish(c *gin.Context) {
	b, err := h.Svc.Unpublish(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, blogView(b), "blog unpublished")
}

func (h *BlogHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.SetStatus(c.Request.Context(), actorFromCtx(c), c.Param("id"),
		entity.PublicationStatus(req.Status))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, blogView(b), "blog status updated")
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actorFromCtx(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "blog deleted")
}
