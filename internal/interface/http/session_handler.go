package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/ortholink/ortholink-api/internal/application"
	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/pagination"
	"github.com/ortholink/ortholink-api/pkg/response"
	"github.com/ortholink/ortholink-api/pkg/validation"
)

type SessionHandler struct {
	Svc    *app.SessionService
	Logger *logrus.Logger
}

func NewSessionHandler(svc *app.SessionService, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{Svc: svc, Logger: logger}
}

var sessionSortable = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"scheduled_at": "scheduled_at",
	"title":        "title",
}

type sessionCreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Slug        string    `json:"slug" binding:"omitempty,slug"`
	Description string    `json:"description"`
	MeetingURL  string    `json:"meeting_url" binding:"omitempty,url"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type sessionUpdateRequest struct {
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug" binding:"omitempty,slug"`
	Description *string    `json:"description"`
	MeetingURL  *string    `json:"meeting_url" binding:"omitempty,url"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type rescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

func sessionView(ls *entity.LiveSession) gin.H {
	return gin.H{
		"id":           ls.ID,
		"title":        ls.Title,
		"slug":         ls.Slug,
		"description":  ls.Description,
		"meeting_url":  ls.MeetingURL,
		"status":       ls.Status,
		"owner_id":     ls.OwnerID,
		"scheduled_at": ls.ScheduledAt,
		"started_at":   ls.StartedAt,
		"ended_at":     ls.EndedAt,
		"created_at":   ls.CreatedAt,
		"updated_at":   ls.UpdatedAt,
	}
}

func sessionViews(items []*entity.LiveSession) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, ls := range items {
		out = append(out, sessionView(ls))
	}
	return out
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req sessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ls, err := h.Svc.Create(c.Request.Context(), actorFromCtx(c), app.SessionInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		MeetingURL:  req.MeetingURL,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, sessionView(ls), "session created")
}

func (h *SessionHandler) Get(c *gin.Context) {
	ls, err := h.Svc.Get(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sessionView(ls), "session")
}

func (h *SessionHandler) List(c *gin.Context) {
	f := repo.SessionFilter{
		Query:   c.Query("q"),
		OwnerID: c.Query("owner_id"),
		Page:    pagination.FromQuery(c, sessionSortable, "scheduled_at", "asc"),
	}
	if raw := c.Query("status"); raw != "" {
		st := entity.SessionStatus(raw)
		if st.Valid() {
			f.Status = &st
		}
	}
	items, total, err := h.Svc.List(c.Request.Context(), actorFromCtx(c), f)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.List(c, sessionViews(items), pagination.NewMeta(f.Page, total), "sessions")
}

func (h *SessionHandler) Update(c *gin.Context) {
	var req sessionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ls, err := h.Svc.Update(c.Request.Context(), actorFromCtx(c), c.Param("id"), app.SessionUpdate{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		MeetingURL:  req.MeetingURL,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sessionView(ls), "session updated")
}

func (h *SessionHandler) Start(c *gin.Context) {
	ls, err := h.Svc.Start(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sessionView(ls), "session started")
}

func (h *SessionHandler) End(c *gin.Context) {
	ls, err := h.Svc.End(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sessionView(ls), "session ended")
}

func (h *SessionHandler) Cancel(c *gin.Context) {
	ls, err := h.Svc.Cancel(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sessionView(ls), "session cancelled")
}

func (h *SessionHandler) Postpone(c *gin.Context) {
	ls, err := h.Svc.Postpone(c.Request.Context(), actorFromCtx(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sessionView(ls), "session postponed")
}

func (h *SessionHandler) Reschedule(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ls, err := h.Svc.Reschedule(c.Request.Context(), actorFromCtx(c), c.Param("id"), req.ScheduledAt)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, sessionView(ls), "session rescheduled")
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), actorFromCtx(c), c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "session deleted")
}
