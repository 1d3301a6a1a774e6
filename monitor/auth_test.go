package monitor_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/jobtree/monitor"
)

func signedToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &monitor.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "monitor-test",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticator_Middleware_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := monitor.NewAuthenticator("secret")
	router := gin.New()
	router.GET("/p", auth.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_Middleware_RejectsExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := monitor.NewAuthenticator("secret")
	router := gin.New()
	router.GET("/p", auth.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signedToken(t, "secret", time.Now().Add(-time.Hour))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_Middleware_AcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := monitor.NewAuthenticator("secret")
	router := gin.New()
	router.GET("/p", auth.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signedToken(t, "secret", time.Now().Add(time.Hour))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_Middleware_AcceptsQueryParamToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := monitor.NewAuthenticator("secret")
	router := gin.New()
	router.GET("/p", auth.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signedToken(t, "secret", time.Now().Add(time.Hour))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p?token="+token, nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_Middleware_RejectsWrongSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := monitor.NewAuthenticator("secret")
	router := gin.New()
	router.GET("/p", auth.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signedToken(t, "wrong-secret", time.Now().Add(time.Hour))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
