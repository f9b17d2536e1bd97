package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/agentflow/internal/circuitbreaker"
	"github.com/guttosm/agentflow/internal/domain/dto"
	"github.com/guttosm/agentflow/internal/i18n"
	"github.com/guttosm/agentflow/internal/logger"
	"github.com/guttosm/agentflow/internal/repository"
	"github.com/guttosm/agentflow/internal/service"
)

// StatusForError maps an error attached to the gin context to an HTTP status
// and translation key.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, i18n.ErrKeyNotFound
	case errors.Is(err, circuitbreaker.ErrCircuitOpen),
		errors.Is(err, service.ErrRepositoryNotConfigured):
		return http.StatusServiceUnavailable, i18n.ErrKeyUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, i18n.ErrKeyInternalError
	}
}

// ErrorHandler returns a middleware that handles gin context errors.
// It provides centralized error handling and logging.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		requestID := GetRequestID(c)
		status, key := StatusForError(err.Err)

		log := logger.Logger()
		event := log.Error()
		if status < http.StatusInternalServerError || status == http.StatusServiceUnavailable {
			event = log.Warn()
		}
		event.
			Str("request_id", requestID).
			Str("error", err.Error()).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status_code", status).
			Msg("Request error")

		if !c.Writer.Written() {
			message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
			errorResp := dto.NewError(dto.ErrCodeFromStatus(status), message).
				WithRequestID(requestID)
			c.JSON(status, errorResp)
		}
	}
}
