package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "mintleaf/internal/errors"
	"mintleaf/internal/models"
	"mintleaf/internal/token"
)

// UserLoader resolves the user a verified session token belongs to.
type UserLoader interface {
	GetUserByEmail(email string) (*models.User, error)
}

// AuthMiddleware verifies the bearer session token, loads the subject
// user, and rejects deactivated accounts. On success the user's id and
// email are stored in the Gin context under "userID" and "email".
func AuthMiddleware(tokens *token.Service, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		email, err := tokens.Verify(parts[1], token.PurposeSession)
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		user, err := users.GetUserByEmail(email)
		if err != nil {
			// The account disappeared after the token was issued.
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		if !user.IsActive {
			abortWithError(c, apperrors.ErrAccountDeactivated)
			return
		}

		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Next()
	}
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
	c.Abort()
}
