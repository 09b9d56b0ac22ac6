package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"yogaseq/internal/logging"
)

// requestID tags every request with an identifier, reusing a sane
// incoming X-Request-ID, and attaches it to the request context so
// logging.WithContext picks it up.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// accessLog records one debug line per request, or a warning on 5xx.
func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log := logging.WithContext(c.Request.Context(), logger)
		attrs := logging.Args(
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Int("status", status),
			logging.Duration("elapsed", time.Since(start)),
			logging.String("remote_addr", c.ClientIP()),
		)
		if status >= 500 {
			log.Warn("api request failed", attrs...)
			return
		}
		log.Debug("api request", attrs...)
	}
}

// auth requires "Authorization: Bearer <token>" when token is set.
// Browsers cannot set headers on a WebSocket handshake, so upgrade requests
// may pass the token as ?token= instead.
func auth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if websocket.IsWebSocketUpgrade(c.Request) && header == "" {
			header = "Bearer " + c.Query("token")
		}
		if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}
