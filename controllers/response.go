package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cafe-api/middleware"
	"github.com/junaidrashid-git/cafe-api/repository"
	"go.uber.org/zap"
)

// RespondError maps a classified error to its status. A 4xx body carries
// the client-safe message of a *repository.Error, or a generic one; the full
// error only goes to the log. Store failures are answered with msg.
func RespondError(c *gin.Context, logger *zap.Logger, err error, msg string) {
	fields := []zap.Field{
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err),
	}
	switch {
	case errors.Is(err, repository.ErrInvalidInput):
		logger.Debug("Rejected request", fields...)
		c.JSON(http.StatusBadRequest, gin.H{"error": publicMessage(err, "Invalid input")})
	case errors.Is(err, repository.ErrNotFound):
		logger.Debug("Resource not found", fields...)
		c.JSON(http.StatusNotFound, gin.H{"error": publicMessage(err, "Not found")})
	default:
		logger.Error(msg, fields...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// RespondBindError answers a payload that failed to decode or validate. The
// decoder's text names Go types and fields, so it is logged, not returned.
func RespondBindError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("Invalid payload",
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
}

func publicMessage(err error, fallback string) string {
	var e *repository.Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return fallback
}

// ParseID reads a positive integer path parameter. On failure it writes a 400
// and returns false.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
