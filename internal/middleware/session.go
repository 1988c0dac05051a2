package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizapp/quizapp-backend/internal/response"
	"github.com/quizapp/quizapp-backend/internal/service"
)

// CheckSessionActive validates the JWT's JTI against the active session in
// Redis. A mismatch means the user logged out or logged in elsewhere since
// the token was issued; the still-unexpired token is rejected.
func CheckSessionActive(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.ValidateSession(c.Request.Context(), claims.EmailID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
