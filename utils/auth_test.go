package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckPasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("123456", string(hash)))
	assert.False(t, CheckPasswordHash("654321", string(hash)))
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := GenerateJWTSecret()
	now := time.Now()

	t.Run("round trips the subject", func(t *testing.T) {
		token, expiresAt, err := GenerateToken("user-1", secret, time.Hour, now)
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Hour), expiresAt)

		sub, err := ParseToken(token, secret)
		require.NoError(t, err)
		assert.Equal(t, "user-1", sub)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		token, _, err := GenerateToken("user-1", secret, time.Minute, now.Add(-time.Hour))
		require.NoError(t, err)

		_, err = ParseToken(token, secret)
		assert.Error(t, err)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		token, _, err := GenerateToken("user-1", "other-secret", time.Hour, now)
		require.NoError(t, err)

		_, err = ParseToken(token, secret)
		assert.Error(t, err)
	})

	t.Run("refuses to sign without a secret", func(t *testing.T) {
		_, _, err := GenerateToken("user-1", "", time.Hour, now)
		assert.Error(t, err)
	})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := "test-secret"

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/private", AuthMiddleware(secret), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("userId"))
		})
		return r
	}

	token, _, err := GenerateToken("user-42", secret, time.Hour, time.Now())
	require.NoError(t, err)

	t.Run("accepts a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-42", w.Body.String())
	})

	t.Run("accepts the session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects missing and invalid tokens", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w = httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
