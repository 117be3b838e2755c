package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidAmount, domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case domain.KindDuplicateAccount, domain.KindConflict:
		return http.StatusConflict
	case domain.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case domain.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the response for err. 5xx responses carry a generic message.
func ErrorBody(err error) dto.ErrorResponse {
	status := StatusFor(domain.KindOf(err))
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "An unexpected error occurred"
		if status == http.StatusServiceUnavailable {
			message = "The data store is unavailable, please retry"
		}
	}
	return dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
}

// AbortWithError renders err with its mapped status and stops the chain.
// Server-side failures are logged with full detail.
func AbortWithError(c *gin.Context, err error) {
	body := ErrorBody(err)
	if body.Code >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("kind", domain.KindOf(err).String()).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(body.Code, body)
}

// ErrorHandlerMiddleware recovers panics and renders errors attached with c.Error
// that no handler has written yet.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Ctx(c.Request.Context()).Error().
					Interface("panic", rec).
					Str("path", c.Request.URL.Path).
					Msg("handler panicked")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:   "Internal Server Error",
					Message: "An unexpected error occurred",
					Code:    http.StatusInternalServerError,
				})
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			AbortWithError(c, c.Errors.Last().Err)
		}
	}
}
