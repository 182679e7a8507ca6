package middleware

import (
	"net/http"
	"strings"

	"github.com/RubeldiRubelda/merryweihnachten/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminAuth rejects requests whose Bearer token has no live admin session.
// A missing or malformed header is 401, a well-formed but unknown or revoked
// token is 403.
func AdminAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		if err := authService.AdminAuthorize(token); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not authorized"})
			return
		}

		c.Set("admin_token", token)
		c.Next()
	}
}

// ParticipantAuth decodes the participant token and stores the phone number
// in the context. The token has no secret component; whether the phone number
// actually has a record is checked by the handler against the store.
func ParticipantAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}

		phoneNumber, err := authService.DecodeParticipantToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}

		c.Set("phone_number", phoneNumber)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
