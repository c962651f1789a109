package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggerMiddleware tags each request with an X-Request-ID and logs it once it
// completes. Requests to skipPaths are tagged but not logged.
func LoggerMiddleware(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		// Generate request ID if not present
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		// Start timer
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if _, ok := skip[c.Request.URL.Path]; ok && len(c.Errors) == 0 {
			return
		}

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		clientIP := c.ClientIP()
		method := c.Request.Method

		if raw != "" {
			path = path + "?" + raw
		}

		// Log the request
		log.Printf("[%s] %s | %d | %v | %s | %s",
			shortID(requestID),
			method,
			statusCode,
			latency,
			clientIP,
			path,
		)

		// Log errors if any
		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				log.Printf("[%s] Error: %v", shortID(requestID), e.Err)
			}
		}
	}
}

// shortID keeps log lines narrow. Client supplied ids may be shorter than 8.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
