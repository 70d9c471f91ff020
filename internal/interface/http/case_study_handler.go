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

type CaseStudyHandler struct {
	Svc    *app.CaseStudyService
	Logger *logrus.Logger
}

func NewCaseStudyHandler(svc *app.CaseStudyService, logger *logrus.Logger) *CaseStudyHandler {
	return &CaseStudyHandler{Svc: svc, Logger: logger}
}

type caseStudyCreateRequest struct {
	Title         string `json:"title" binding:"required"`
	Slug          string `json:"slug" binding:"omitempty,slug"`
	Summary       string `json:"summary"`
	Body          string `json:"body"`
	TreatmentType string `json:"treatment_type"`
}

type caseStudyUpdateRequest struct {
	Title         *string `json:"title"`
	Slug          *string `json:"slug" binding:"omitempty,slug"`
	Summary       *string `json:"summary"`
	Body          *string `json:"body"`
	TreatmentType *string `json:"treatment_type"`
}

func caseStudyView(cs *entity.CaseStudy) gin.H {
	return gin.H{
		"id":             cs.ID,
		"title":          cs.Title,
		"slug":           cs.Slug,
		"summary":        cs.Summary,
		"body":           cs.Body,
		"treatment_type": cs.TreatmentType,
		"status":         cs.Status,
		"owner_id":       cs.OwnerID,
		"view_count":     cs.ViewCount,
		"published_at":   cs.PublishedAt,
		"created_at":     cs.CreatedAt,
		"updated_at":     cs.UpdatedAt,
	}
}

func caseStudyViews(items []*entity.CaseStudy) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, cs := range items {
		out = append(out, caseStudyView(cs))
	}
	return out
}

func (h *CaseStudyHandler) Create(c *gin.Context) {
	var req caseStudyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cs, err := h.Svc.Create(c.Request.Context(), actorFromCtx(c), app.CaseStudyInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Summary:       req.Summary,
		Body:          req.Body,
		TreatmentType: req.TreatmentType,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, caseStudyView(cs), "case study created")
}

func (h *CaseStudyHandler) Get(c *gin.Context) {
	cs, err := h.Svc.Get(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, caseStudyView(cs), "case study")
}

func (h *CaseStudyHandler) List(c *gin.Context) {
	f := contentFilterFromQuery(c, contentSortable, "created_at")
	items, total, err := h.Svc.List(c.Request.Context(), actorFromCtx(c), f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, caseStudyViews(items), pagination.NewMeta(f.Page, total), "case studies")
}

func (h *CaseStudyHandler) Update(c *gin.Context) {
	var req caseStudyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cs, err := h.Svc.Update(c.Request.Context(), actorFromCtx(c), c.Param("id"), app.CaseStudyUpdate{
		Title:         req.Title,
		Slug:          req.Slug,
		Summary:       req.Summary,
		Body:          req.Body,
		TreatmentType: req.TreatmentType,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, caseStudyView(cs), "case study updated")
}

func (h *CaseStudyHandler) Publish(c *gin.Context) {
	cs, err := h.Svc.Publish(c.Request.Context(), actorFromCtx(c), c.Param("id"), publishedAtFromBody(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, caseStudyView(cs), "case study published")
}

func (h *CaseStudyHandler) Unpublish(c *gin.Context) {
	cs, err := h.Svc.Unpublish(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, caseStudyView(cs), "case study unpublished")
}

func (h *CaseStudyHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cs, err := h.Svc.SetStatus(c.Request.Context(), actorFromCtx(c), c.Param("id"),
		entity.PublicationStatus(req.Status))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, caseStudyView(cs), "case study status updated")
}

func (h *CaseStudyHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actorFromCtx(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "case study deleted")
}
