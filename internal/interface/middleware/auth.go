package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/accounts-api/pkg/helpers"
	"github.com/oksasatya/accounts-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

// Auth requires an "Authorization: Bearer <token>" header.
// It sets userID and userEmail in the Gin context on success.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, helpers.ErrExpiredToken) {
				msg = "token expired"
			}
			response.Error(c, http.StatusUnauthorized, msg)
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
