package handler

import (
	"strings"

	"myfitapp/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ctxUserKey = "user"

// AuthMiddleware resolves the bearer token to an active user.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			zap.L().Debug("Authorization header missing or malformed")
			tokenVerificationsTotal.WithLabelValues("access", "failure").Inc()
			handleServiceError(c, models.ErrUnauthorized, "")
			return
		}

		user, _, err := h.authService.Authenticate(c.Request.Context(), parts[1])
		tokenVerificationsTotal.WithLabelValues("access", status(err)).Inc()
		if err != nil {
			zap.L().Debug("Access token rejected", zap.Error(err))
			handleServiceError(c, err, "")
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) (*models.User, bool) {
	raw, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok && user != nil
}
