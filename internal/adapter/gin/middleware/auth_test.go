package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func setupAuthRouter(t *testing.T, key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyAuth(key, zaptest.NewLogger(t)))
	r.GET("/api/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	t.Run("MissingKey_Forbidden", func(t *testing.T) {
		r := setupAuthRouter(t, "secret")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "forbidden")
	})

	t.Run("WrongKey_Forbidden", func(t *testing.T) {
		r := setupAuthRouter(t, "secret")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users", nil)
		req.Header.Set(APIKeyHeader, "not-the-secret")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("CorrectKey_PassesThrough", func(t *testing.T) {
		r := setupAuthRouter(t, "secret")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users", nil)
		req.Header.Set(APIKeyHeader, "secret")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("KeyIsCaseSensitive", func(t *testing.T) {
		r := setupAuthRouter(t, "secret")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/users", nil)
		req.Header.Set(APIKeyHeader, "SECRET")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
