package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jpbaz28/Banking-API/internal/api/dto"
	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"
)

// bodyRecorder copies what the handler writes
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// idempotencyScope names the caller a key belongs to. Keys of different token
// subjects never collide.
func idempotencyScope(c *gin.Context) string {
	if claims, ok := GetAuthClaims(c); ok {
		return claims.SubjectType + ":" + claims.Subject
	}
	return "anonymous"
}

// hashBody fingerprints the request body and puts it back for the handler.
func hashBody(c *gin.Context) (string, error) {
	if c.Request.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

// Idempotency replays the stored response of an earlier POST or PATCH that carried
// the same Idempotency-Key from the same caller. Responses with status >= 500 are
// not stored so the caller can retry them. A key reused for a different method,
// path or body is rejected.
func Idempotency(store repository.IdempotencyRepository, ttl time.Duration) gin.HandlerFunc {
	var inFlight sync.Map

	return func(c *gin.Context) {
		method := c.Request.Method
		header := c.GetHeader(IdempotencyKeyHeader)
		if header == "" || (method != http.MethodPost && method != http.MethodPatch) {
			c.Next()
			return
		}
		key := idempotencyScope(c) + "|" + header

		ctx := c.Request.Context()
		logger := log.Ctx(ctx)
		path := c.Request.URL.Path

		if _, busy := inFlight.LoadOrStore(key, struct{}{}); busy {
			c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "Conflict",
				Message: "A request with this Idempotency-Key is still being processed",
				Code:    http.StatusConflict,
			})
			return
		}
		defer inFlight.Delete(key)

		hash, err := hashBody(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad Request",
				Message: "Failed to read request body",
				Code:    http.StatusBadRequest,
			})
			return
		}

		cached, err := store.Get(ctx, key)
		if err != nil {
			// Fail open: a broken cache must not block writes
			logger.Error().Err(err).Str("key", key).Msg("failed to read idempotency record")
			c.Next()
			return
		}

		if cached != nil {
			if cached.Method != method || cached.Path != path || cached.RequestHash != hash {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
					Error:   "Unprocessable Entity",
					Message: "Idempotency-Key was already used for a different request",
					Code:    http.StatusUnprocessableEntity,
				})
				return
			}
			logger.Debug().Str("key", key).Msg("idempotency replay")
			c.Header(IdempotencyHitHeader, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			return
		}

		now := time.Now().UTC()
		record := &domain.IdempotencyRecord{
			Key:         key,
			Method:      method,
			Path:        path,
			RequestHash: hash,
			StatusCode:  status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
			CreatedAt:   now,
			ExpiresAt:   now.Add(ttl),
		}
		if err := store.Save(ctx, record); err != nil {
			logger.Error().Err(err).Str("key", key).Msg("failed to save idempotency record")
		}
	}
}
