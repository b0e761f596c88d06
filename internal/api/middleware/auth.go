package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tictacroom/internal/api/response"
	"tictacroom/internal/api/service"
)

// UsernameKey is the gin context key under which the authenticated
// username is stored.
const UsernameKey = "username"

// AuthRequired verifies the Authorization bearer token and stores the
// authenticated username in the request context.
func AuthRequired(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			response.ErrorResponse(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		username, err := userService.Verify(token)
		if err != nil {
			response.ErrorResponse(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(UsernameKey, username)
		c.Next()
	}
}
