package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/middleware"
)

// respondError translates service errors into HTTP responses. Sentinel
// wrapping in the services keeps this mapping in one place.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// bindJSON binds the request body, answering 400 on failure. Returns false
// when the handler should stop.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

// actorID pulls the authenticated user from the context, answering 401 when
// it is missing.
func actorID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return id, true
}

// listWindow parses limit/offset query parameters with defaults.
func listWindow(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
