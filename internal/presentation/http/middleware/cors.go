package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-commission-api/internal/config"
)

var (
	defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin"}

	// headers the POS client always needs, whatever is configured
	requiredHeaders = []string{IdempotencyKeyHeader, "X-Request-ID"}
)

// CORSMiddleware creates a CORS middleware with the provided configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, defaultOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultMethods),
		AllowHeaders:     orDefault(cfg.AllowedHeaders, defaultHeaders),
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID", "X-Idempotency-Replayed", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, h := range requiredHeaders {
		if !contains(corsConfig.AllowHeaders, h) {
			corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, h)
		}
	}

	return cors.New(corsConfig)
}

func orDefault(configured, fallback []string) []string {
	if len(configured) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), configured...)
}
