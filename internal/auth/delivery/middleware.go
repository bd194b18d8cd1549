package delivery

import (
	"net/http"
	"strings"

	authdomain "ingetin-backend/internal/auth/domain"
	"ingetin-backend/internal/auth/usecase"
	"ingetin-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer access token and stores the user as
// "user", "userID" and "userEmail" on the context.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, "Not authorized, invalid authorization header")
			return
		}

		user, err := authUsecase.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Set("userEmail", user.Email)
		c.Next()
	}
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *authdomain.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*authdomain.User); ok {
			return user
		}
	}
	return nil
}
