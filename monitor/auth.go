package monitor

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("monitor: no bearer token provided")
	ErrInvalidToken = errors.New("monitor: invalid bearer token")
)

// Claims is the minimal claim set the monitor checks: a subject and
// standard expiry, nothing domain-specific.
type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator validates HS256 bearer tokens against a shared secret.
// It has no notion of users, roles, or permissions — the monitor is a
// read-only surface, so "has a valid token" is the entire authorization
// model.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator builds an Authenticator. A blank secret means every
// request is rejected.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Middleware returns a gin.HandlerFunc rejecting requests without a
// valid bearer token.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(a.secret) == 0 {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "monitor auth not configured"})
			return
		}
		token, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if _, err := a.validate(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func (a *Authenticator) validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// extractToken reads a bearer token from the Authorization header, or
// from a "token" query parameter — the latter is how browsers
// authenticate the WebSocket upgrade, which cannot set headers.
func extractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1], nil
		}
	}
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", ErrNoToken
}
