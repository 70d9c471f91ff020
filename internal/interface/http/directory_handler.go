package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/ortholink/ortholink-api/internal/application"
	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/pagination"
	"github.com/ortholink/ortholink-api/pkg/response"
	"github.com/ortholink/ortholink-api/pkg/validation"
)

type DirectoryHandler struct {
	Svc    *app.DirectoryService
	Logger *logrus.Logger
}

func NewDirectoryHandler(svc *app.DirectoryService, logger *logrus.Logger) *DirectoryHandler {
	return &DirectoryHandler{Svc: svc, Logger: logger}
}

var practiceSortable = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
	"city":       "city",
}

type practiceCreateRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=200"`
	Specialty string `json:"specialty" binding:"required,max=100"`
	Address   string `json:"address" binding:"required,max=300"`
	City      string `json:"city" binding:"required,max=120"`
	Country   string `json:"country" binding:"required,max=120"`
	Phone     string `json:"phone" binding:"omitempty,max=40"`
	Website   string `json:"website" binding:"omitempty,url"`
	ShowOnMap *bool  `json:"show_on_map"`
}

type practiceUpdateRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=200"`
	Specialty *string `json:"specialty" binding:"omitempty,max=100"`
	Address   *string `json:"address" binding:"omitempty,max=300"`
	City      *string `json:"city" binding:"omitempty,max=120"`
	Country   *string `json:"country" binding:"omitempty,max=120"`
	Phone     *string `json:"phone" binding:"omitempty,max=40"`
	Website   *string `json:"website" binding:"omitempty,url"`
	ShowOnMap *bool   `json:"show_on_map"`
}

func practiceView(p *entity.Practice) gin.H {
	return gin.H{
		"id":          p.ID,
		"owner_id":    p.OwnerID,
		"name":        p.Name,
		"specialty":   p.Specialty,
		"address":     p.Address,
		"city":        p.City,
		"country":     p.Country,
		"phone":       p.Phone,
		"website":     p.Website,
		"lat":         p.Lat,
		"lon":         p.Lon,
		"show_on_map": p.ShowOnMap,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
}

func practiceViews(items []*entity.Practice) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, p := range items {
		out = append(out, practiceView(p))
	}
	return out
}

func (h *DirectoryHandler) Create(c *gin.Context) {
	var req practiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := app.PracticeInput{
		Name:      req.Name,
		Specialty: req.Specialty,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		Phone:     req.Phone,
		Website:   req.Website,
		ShowOnMap: true,
	}
	if req.ShowOnMap != nil {
		in.ShowOnMap = *req.ShowOnMap
	}
	p, err := h.Svc.Create(c.Request.Context(), actorFromCtx(c), in)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, practiceView(p), "practice created")
}

func (h *DirectoryHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, practiceView(p), "practice")
}

// GetMine returns the caller's own practice regardless of map visibility.
func (h *DirectoryHandler) GetMine(c *gin.Context) {
	p, err := h.Svc.GetMine(c.Request.Context(), actorFromCtx(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, practiceView(p), "my practice")
}

func (h *DirectoryHandler) List(c *gin.Context) {
	f := repo.PracticeFilter{
		Query:     c.Query("q"),
		City:      c.Query("city"),
		Country:   c.Query("country"),
		Specialty: c.Query("specialty"),
		Page:      pagination.FromQuery(c, practiceSortable, "name", "asc"),
	}
	items, total, err := h.Svc.List(c.Request.Context(), actorFromCtx(c), f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, practiceViews(items), pagination.NewMeta(f.Page, total), "practices")
}

func (h *DirectoryHandler) Update(c *gin.Context) {
	var req practiceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := app.PracticeUpdate{
		Name:      req.Name,
		Specialty: req.Specialty,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		Phone:     req.Phone,
		Website:   req.Website,
		ShowOnMap: req.ShowOnMap,
	}
	p, err := h.Svc.Update(c.Request.Context(), actorFromCtx(c), c.Param("id"), in)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, practiceView(p), "practice updated")
}

func (h *DirectoryHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actorFromCtx(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nil, "practice deleted")
}
