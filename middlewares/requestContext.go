package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minelab/sampletrack_backend/config"
	"github.com/minelab/sampletrack_backend/utils"
	"github.com/sirupsen/logrus"
)

// RequestContextMiddleware tags every request with an id and the acting
// user from the X-User header. Mutations downstream read the user out of
// the request context for audit rows; an absent header means SYSTEM.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := uuid.NewString()

		ctx := utils.SetRequestIdInContext(c.Request.Context(), requestId)
		if userName := c.Request.Header.Get("X-User"); userName != "" {
			ctx = utils.SetUserNameInContext(ctx, userName)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-Id", requestId)
		c.Next()
	}
}

// RequestLogMiddleware writes one structured line per request.
func RequestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestId, _ := utils.GetRequestIdFromContext(c.Request.Context())
		config.GetLogger().WithFields(logrus.Fields{
			"request_id": requestId,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	}
}
