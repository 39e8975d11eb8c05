package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"profolio-backend/config"
	"profolio-backend/internal/delivery/http/middleware"
	"profolio-backend/internal/domain"
	"profolio-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func guardedRouter(t *testing.T, handlerRan *bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	cfg := &config.Config{SupabaseJWTSecret: testSecret}
	r.GET("/protected", middleware.AuthMiddleware(auth.NewProvider(""), cfg), func(c *gin.Context) {
		*handlerRan = true
		uid, _ := c.Request.Context().Value(domain.KeyUserID).(string)
		c.String(http.StatusOK, uid)
	})
	return r
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func TestGuardRejectsUnresolvedRequests(t *testing.T) {
	handlerRan := false
	r := guardedRouter(t, &handlerRan)

	t.Run("Missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Token without subject", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
			"email": "ada@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		}))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	// The handler never runs for an unresolved identity
	assert.False(t, handlerRan)
}

func TestGuardResolvesIdentityBeforeHandler(t *testing.T) {
	handlerRan := false
	r := guardedRouter(t, &handlerRan)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
		"sub":   "uid-1",
		"email": "ada@example.com",
		"user_metadata": map[string]interface{}{
			"full_name": "Ada Lovelace",
		},
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	r.ServeHTTP(w, req)

	assert.True(t, handlerRan)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uid-1", w.Body.String())
}
