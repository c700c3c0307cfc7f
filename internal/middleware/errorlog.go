package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	"github.com/escolaware/escola-api/internal/repository"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

// ErrorLog records a diagnostic row after any failed request. Recording is
// best-effort: a failure to log never aborts the response.
func ErrorLog(repo *repository.ErrorLogRepository, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 400 {
			return
		}

		message, stack := "", ""
		if last := c.Errors.Last(); last != nil {
			appErr := appErrors.FromError(last.Err)
			message = appErr.Message
			if cause := appErr.Unwrap(); cause != nil {
				stack = cause.Error()
			}
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		entry := &models.ErrorLog{
			Method:    c.Request.Method,
			Route:     route,
			Status:    status,
			Message:   message,
			Stack:     stack,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if err := repo.Create(c.Request.Context(), entry); err != nil {
			logger.Warn("failed to append error log", zap.Error(err))
		}
	}
}
