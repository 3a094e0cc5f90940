package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	cartSessionHeader = "X-Cart-Session"
	tokenCtxKey       = "bearer_token"
)

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header. ok is false when the header is absent or carries no token.
func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireToken rejects requests without a bearer token. Resolving the token
// to a customer is left to the services.
func requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgTokenMissing})
			return
		}
		c.Set(tokenCtxKey, token)
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	return c.GetString(tokenCtxKey)
}

// requireCartSession rejects cart requests without a session header.
func requireCartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader(cartSessionHeader)) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msgCartNotFound, Detail: cartSessionHeader + " header required"})
			return
		}
		c.Next()
	}
}

func cartSession(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(cartSessionHeader))
}
