package api

import (
	"beat-planning-service/internal/api/handlers"
	"beat-planning-service/internal/auth"
	"beat-planning-service/internal/platform/obs"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// requestID tags each request with an id (the caller's, when supplied) so
// op timings and logs can be correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(obs.WithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs end-to-end request duration and response size for basic observability.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		obs.L().Info("request",
			zap.String("req_id", obs.RequestID(c.Request.Context())),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.RequestURI()),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// requireRole admits requests whose bearer token carries one of roles.
// Rejections name the page the client should go to.
func requireRole(v *auth.Verifier, roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))

		claims, redirect := v.RequireRole(token, roles...)
		if redirect != nil {
			c.AbortWithStatusJSON(redirect.Status, gin.H{
				"error":    redirect.Reason,
				"redirect": redirect.Location,
			})
			return
		}

		c.Set(handlers.ClaimsKey, claims)
		c.Set(handlers.TokenKey, token)
		c.Next()
	}
}
