package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/internal/logger"
	"github.com/sangkips/salon-commission-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Now  func() time.Time
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyRequired requires an Idempotency-Key on POST requests. A retry
// with the same key and body replays the stored 2xx response instead of
// creating (and accruing) the sale again; the same key with a different body
// is rejected.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			response.BadRequest(c, "Idempotency-Key header is required for this request")
			c.Abort()
			return
		}

		userID := GetUserID(c)
		if userID == uuid.Nil {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Unable to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])

		existing, err := config.Repo.FindReplay(c.Request.Context(), idempotencyKey, userID)
		if err != nil {
			response.Error(c, apperror.NewStorageError("check idempotency key", err))
			c.Abort()
			return
		}

		if existing != nil && !existing.IsExpired(now()) {
			if existing.RequestHash != requestHash {
				response.Error(c, apperror.NewAppError(http.StatusUnprocessableEntity, apperror.KindConflict,
					"Idempotency-Key was already used with a different request"))
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		if existing != nil {
			// Expired: clear it so the key can be stored again
			if _, err := config.Repo.PurgeExpired(c.Request.Context(), now()); err != nil {
				response.Error(c, apperror.NewStorageError("clear expired idempotency keys", err))
				c.Abort()
				return
			}
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only successful responses are replayable
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			UserID:       userID,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    now().Add(IdempotencyKeyTTL),
		}
		stored, err := config.Repo.SaveReplay(c.Request.Context(), ikey)
		if err != nil || !stored {
			log := logger.FromContext(c.Request.Context(), logger.Nop())
			log.Warn().Err(err).Bool("duplicate", !stored).Str("idempotency_key", idempotencyKey).Msg("idempotent response not stored")
		}
	}
}
