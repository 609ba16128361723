package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JanVogt06/dfb-spesen-generator/internal/apierr"
	"github.com/JanVogt06/dfb-spesen-generator/internal/auth"
)

const UserIDKey = "user_id"

// UserLookup resolves a token's user id to an existing user. It lets the
// middleware reject tokens for deleted accounts without importing the store.
type UserLookup func(userID int64) bool

// Auth validates the "Bearer <token>" Authorization header, checks the user
// still exists and stores the user id in the request context.
func Auth(secret []byte, exists UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierr.Authentication(c, "Nicht angemeldet - Token fehlt")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierr.Authentication(c, "Ungültiges Token-Format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			apierr.Authentication(c, "Ungültiges Token-Format")
			return
		}

		userID, err := auth.UserIDFromToken(tokenString, secret)
		if err != nil {
			apierr.Authentication(c, "Token ungültig oder abgelaufen")
			return
		}

		if exists != nil && !exists(userID) {
			apierr.Authentication(c, "User nicht gefunden")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
