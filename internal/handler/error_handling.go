package handler

import (
	"errors"
	"net/http"

	"myfitapp/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInternalError = "An unexpected internal error occurred"

func respond(c *gin.Context, status int, kind, message string) {
	c.JSON(status, models.APIResponse{Type: kind, Message: message})
}

func abortWith(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, models.APIResponse{Type: kind, Message: message})
}

// handleServiceError maps a service error to a response. fallback is the
// message used for unexpected errors.
func handleServiceError(c *gin.Context, err error, fallback string) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		abortWith(c, http.StatusBadRequest, models.ResponseError, validationErr.Message)
	case errors.Is(err, models.ErrUserAlreadyExists):
		abortWith(c, http.StatusConflict, models.ResponseError, "User already exists")
	case errors.Is(err, models.ErrUserNotFound):
		abortWith(c, http.StatusNotFound, models.ResponseError, "The user does not exist")
	case errors.Is(err, models.ErrUserPending):
		abortWith(c, http.StatusConflict, models.ResponseWarning, "This user is pending activation")
	case errors.Is(err, models.ErrUserAlreadyActive):
		abortWith(c, http.StatusConflict, models.ResponseError, "The user is already active")
	case errors.Is(err, models.ErrInvalidCredentials):
		abortWith(c, http.StatusBadRequest, models.ResponseError, "User or password doesnt match")
	case errors.Is(err, models.ErrInvalidVerificationCode):
		abortWith(c, http.StatusNotFound, models.ResponseError, "Invalid verification code")
	case errors.Is(err, models.ErrUnauthorized):
		abortWith(c, http.StatusUnauthorized, models.ResponseError, "You are not logged in")
	case errors.Is(err, models.ErrUserNotActive):
		abortWith(c, http.StatusForbidden, models.ResponseError, "You are not active")
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenNotFound):
		abortWith(c, http.StatusUnauthorized, models.ResponseError, "Invalid or expired token")
	case errors.Is(err, models.ErrTicketNotFound):
		abortWith(c, http.StatusNotFound, models.ResponseError, "Invalid or expired ticket")
	default:
		zap.L().Error("Unhandled internal error in handleServiceError",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		if fallback == "" {
			fallback = msgInternalError
		}
		abortWith(c, http.StatusInternalServerError, models.ResponseError, fallback)
	}
}
