package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ortholink/ortholink-api/internal/container"
	handlers "github.com/ortholink/ortholink-api/internal/interface/http"
	"github.com/ortholink/ortholink-api/internal/interface/middleware"
)

// AuthModule wires signup, the token pair lifecycle, and the profile routes.
// Public: POST /api/signup, POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET /api/profile, PUT /api/profile
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := protectedGroup(rg)
	auth.POST("/logout", m.Handler.Logout)
	auth.GET("/profile", m.Handler.GetProfile)
	auth.PUT("/profile", m.Handler.UpdateProfile)
}
