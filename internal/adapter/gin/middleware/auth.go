package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIKeyHeader is the header carrying the shared service key.
const APIKeyHeader = "USER-API-KEY"

// APIKeyAuth rejects requests whose USER-API-KEY header is missing or
// does not match the configured key. Comparison is constant-time.
func APIKeyAuth(key string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(APIKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			log.Warn("request rejected: bad api key",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "invalid or missing api key",
			})
			return
		}

		c.Next()
	}
}
