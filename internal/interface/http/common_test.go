package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	app "github.com/ortholink/ortholink-api/internal/application"
)

// Conflict is reserved for duplicate unique keys; state preconditions such as
// a full course read as bad requests.
func TestWriteServiceErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", app.ErrNotFound, http.StatusNotFound},
		{"forbidden", app.ErrForbidden, http.StatusForbidden},
		{"bad credentials", app.ErrInvalidCredentials, http.StatusUnauthorized},
		{"duplicate enrollment", app.ErrAlreadyEnrolled, http.StatusConflict},
		{"slug taken", app.ErrSlugTaken, http.StatusConflict},
		{"course full", app.ErrLimitReached, http.StatusBadRequest},
		{"not published", app.ErrNotPublished, http.StatusBadRequest},
		{"bad transition", app.ErrInvalidTransition, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			writeServiceError(c, nil, tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
