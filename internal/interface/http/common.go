package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/ortholink/ortholink-api/internal/application"
	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/pagination"
	"github.com/ortholink/ortholink-api/pkg/response"
)

// actorFromCtx reads the identity the auth middleware stored. Anonymous
// requests produce the zero actor.
func actorFromCtx(c *gin.Context) app.Actor {
	return app.Actor{
		ID:   c.GetString("userID"),
		Role: entity.Role(c.GetString("userRole")),
	}
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is logged and hidden behind a generic 500.
func writeServiceError(c *gin.Context, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, "resource not found", nil)
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, app.ErrEmailTaken),
		errors.Is(err, app.ErrSlugTaken),
		errors.Is(err, app.ErrAlreadyPublished),
		errors.Is(err, app.ErrAlreadyEnrolled),
		errors.Is(err, app.ErrConflict):
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, app.ErrInvalidTransition),
		errors.Is(err, app.ErrNotPublished),
		errors.Is(err, app.ErrNotPublishedState),
		errors.Is(err, app.ErrLimitReached),
		errors.Is(err, app.ErrGeocodeFailed):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		if log != nil {
			log.WithError(err).WithField("path", c.FullPath()).Error("unhandled service error")
		}
		response.Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// contentSortable is the sort allowlist shared by the content list endpoints.
var contentSortable = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"title":        "title",
	"views":        "view_count",
}

// contentFilterFromQuery reads the shared list filter. The status filter is
// passed through as requested; the service scopes it to what the actor may
// see.
func contentFilterFromQuery(c *gin.Context, sortable map[string]string, defaultSort string) repo.ContentFilter {
	f := repo.ContentFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		OwnerID:  c.Query("owner_id"),
		Page:     pagination.FromQuery(c, sortable, defaultSort, "desc"),
	}
	if raw := c.Query("status"); raw != "" {
		st := entity.PublicationStatus(raw)
		if st.Valid() {
			f.Status = &st
		}
	}
	return f
}

// publishRequest optionally overrides the publication timestamp.
type publishRequest struct {
	PublishedAt *time.Time `json:"published_at"`
}

func publishedAtFromBody(c *gin.Context) *time.Time {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil
	}
	return req.PublishedAt
}
