package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/ortholink/ortholink-api/internal/application"
	"github.com/ortholink/ortholink-api/pkg/response"
)

type SearchHandler struct {
	Svc    *app.SearchService
	Logger *logrus.Logger
}

func NewSearchHandler(svc *app.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{Svc: svc, Logger: logger}
}

// Search queries the published-content indexes. Results reflect what has been
// indexed; drafts never reach the indexes in the first place.
func (h *SearchHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, "query is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("search query failed")
		}
		response.Error(c, http.StatusServiceUnavailable, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"query": q, "hits": hits}, "search results")
}
