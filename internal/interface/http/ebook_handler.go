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

type EbookHandler struct {
	Svc    *app.EbookService
	Logger *logrus.Logger
}

func NewEbookHandler(svc *app.EbookService, logger *logrus.Logger) *EbookHandler {
	return &EbookHandler{Svc: svc, Logger: logger}
}

type ebookCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"omitempty,slug"`
	Description string `json:"description"`
	FileURL     string `json:"file_url" binding:"omitempty,url"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url"`
	Category    string `json:"category"`
}

type ebookUpdateRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug" binding:"omitempty,slug"`
	Description *string `json:"description"`
	FileURL     *string `json:"file_url" binding:"omitempty,url"`
	CoverURL    *string `json:"cover_url" binding:"omitempty,url"`
	Category    *string `json:"category"`
}

func ebookView(e *entity.Ebook) gin.H {
	return gin.H{
		"id":           e.ID,
		"title":        e.Title,
		"slug":         e.Slug,
		"description":  e.Description,
		"file_url":     e.FileURL,
		"cover_url":    e.CoverURL,
		"category":     e.Category,
		"status":       e.Status,
		"owner_id":     e.OwnerID,
		"view_count":   e.ViewCount,
		"published_at": e.PublishedAt,
		"created_at":   e.CreatedAt,
		"updated_at":   e.UpdatedAt,
	}
}

func ebookViews(items []*entity.Ebook) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, e := range items {
		out = append(out, ebookView(e))
	}
	return out
}

func (h *EbookHandler) Create(c *gin.Context) {
	var req ebookCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := h.Svc.Create(c.Request.Context(), actorFromCtx(c), app.EbookInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		FileURL:     req.FileURL,
		CoverURL:    req.CoverURL,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, ebookView(e), "ebook created")
}

func (h *EbookHandler) Get(c *gin.Context) {
	e, err := h.Svc.Get(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ebookView(e), "ebook")
}

func (h *EbookHandler) List(c *gin.Context) {
	f := contentFilterFromQuery(c, contentSortable, "created_at")
	items, total, err := h.Svc.List(c.Request.Context(), actorFromCtx(c), f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, ebookViews(items), pagination.NewMeta(f.Page, total), "ebooks")
}

func (h *EbookHandler) Update(c *gin.Context) {
	var req ebookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := h.Svc.Update(c.Request.Context(), actorFromCtx(c), c.Param("id"), app.EbookUpdate{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		FileURL:     req.FileURL,
		CoverURL:    req.CoverURL,
		Category:    req.Category,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ebookView(e), "ebook updated")
}

func (h *EbookHandler) Publish(c *gin.Context) {
	e, err := h.Svc.Publish(c.Request.Context(), actorFromCtx(c), c.Param("id"), publishedAtFromBody(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ebookView(e), "ebook published")
}

func (h *EbookHandler) Unpublish(c *gin.Context) {
	e, err := h.Svc.Unpublish(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ebookView(e), "ebook unpublished")
}

func (h *EbookHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := h.Svc.SetStatus(c.Request.Context(), actorFromCtx(c), c.Param("id"),
		entity.PublicationStatus(req.Status))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ebookView(e), "ebook status updated")
}

func (h *EbookHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actorFromCtx(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "ebook deleted")
}
