package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	svcErr "github.com/kindredapp/kindred/internal/errors"
)

const userIDKey = "auth_user_id"

// RequireAuth validates the Bearer token and stores the authenticated user id
// on the request context. The token subject carries the user id.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			svcErr.WriteHTTP(c, svcErr.ErrUnauthenticated)
			return
		}

		token, err := jwt.Parse(
			strings.TrimPrefix(header, "Bearer "),
			func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil || !token.Valid {
			svcErr.WriteHTTP(c, svcErr.ErrUnauthenticated)
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil {
			svcErr.WriteHTTP(c, svcErr.ErrUnauthenticated)
			return
		}
		userID, err := strconv.ParseUint(sub, 10, 64)
		if err != nil || userID == 0 {
			svcErr.WriteHTTP(c, svcErr.ErrUnauthenticated)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// IssueToken signs a token for the given user id. Used by the seed command;
// real credential exchange lives with the identity provider.
func IssueToken(secret string, userID uint64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(userID, 10),
	})
	return token.SignedString([]byte(secret))
}
