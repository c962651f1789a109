package middleware

import (
	"strings"
	"time"

	"github.com/LouisLibre/BorderPOS/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// requiredHeaders are always allowed because the register UI sends them.
var requiredHeaders = []string{"Content-Type", "X-Request-ID", IdempotencyKeyHeader}

// CORSMiddleware lets the desktop webview call the register API
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID", IdempotencyReplayedHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	// Tauri webviews use their own schemes besides the dev server, which the
	// origin list validation rejects, so origins are matched here.
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:1420",
			"tauri://localhost",
			"http://tauri.localhost",
		}
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSuffix(o, "/")] = struct{}{}
	}
	corsConfig.AllowOriginFunc = func(origin string) bool {
		_, ok := allowed[origin]
		return ok
	}

	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}

	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = []string{"Accept", "Origin"}
	}
	for _, h := range requiredHeaders {
		if !containsHeader(corsConfig.AllowHeaders, h) {
			corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, h)
		}
	}

	return cors.New(corsConfig)
}

func containsHeader(headers []string, h string) bool {
	for _, existing := range headers {
		if existing == h {
			return true
		}
	}
	return false
}
