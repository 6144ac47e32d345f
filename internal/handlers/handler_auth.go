package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/core/services"
	"github.com/buildra/construction_finance_app/internal/dto"
	"github.com/buildra/construction_finance_app/internal/middleware"
)

// authHandler handles login requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes registers the public authentication routes. Login is
// rate limited per IP to slow down PIN guessing.
func registerAuthRoutes(r *gin.Engine, authService portssvc.AuthSvcFacade) {
	h := newAuthHandler(authService)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
	}
}

// login godoc
// @Summary Log in with username and PIN
// @Description Validates credentials and returns a bearer token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or PIN"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
