package handler

import (
	"errors"
	"net/http"

	"myfitapp/internal/models"
	"myfitapp/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// signUp registers a pending account.
// @Router /api/users/signUp [post]
func (h *AuthHandler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, models.ResponseError, service.MsgInvalidData)
		return
	}

	_, err := h.authService.SignUp(c.Request.Context(), service.SignUpInput{
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
	})
	if err != nil {
		handleServiceError(c, err, "An error occurred while signUp the user")
		return
	}

	signUpsTotal.Inc()
	respond(c, http.StatusCreated, models.ResponseSuccess, "User successfully created")
}

// signIn accepts an email or a username as login.
// @Router /api/users/signIn [post]
func (h *AuthHandler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RememberMe == nil {
		abortWith(c, http.StatusBadRequest, models.ResponseError, service.MsgInvalidData)
		return
	}
	rememberMe := bool(*req.RememberMe)

	result, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password, rememberMe)
	signInsTotal.WithLabelValues("password", status(err)).Inc()
	if err != nil {
		handleServiceError(c, err, "An error occurred while signIn the user")
		return
	}

	body := gin.H{
		"type":     models.ResponseSuccess,
		"message":  "Session successfully started",
		"token":    result.AccessToken,
		"userData": models.NewUserData(result.User, false),
	}
	if result.RememberToken != "" {
		h.setRememberCookie(c, result.RememberToken)
		body["rememberToken"] = result.RememberToken
	} else {
		h.clearRememberCookie(c)
	}
	c.JSON(http.StatusOK, body)
}

// @Router /api/users/signOut [post]
func (h *AuthHandler) signOut(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized, "")
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), user.ID); err != nil {
		handleServiceError(c, err, "An error occurred while signOut the user")
		return
	}

	h.clearRememberCookie(c)
	respond(c, http.StatusOK, models.ResponseSuccess, "Session successfully ended")
}

// tokenExisting restores a session from the remember-me cookie.
// @Router /api/users/tokenExisting [post]
func (h *AuthHandler) tokenExisting(c *gin.Context) {
	token := h.rememberCookie(c)
	if token == "" {
		respond(c, http.StatusOK, models.ResponseInfo, "No remember token found")
		return
	}

	result, err := h.authService.RememberedUser(c.Request.Context(), token)
	tokenVerificationsTotal.WithLabelValues("remember", status(err)).Inc()
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenNotFound):
			h.clearRememberCookie(c)
			abortWith(c, http.StatusUnauthorized, models.ResponseError, "Invalid or expired token")
		case errors.Is(err, models.ErrUserNotActive):
			abortWith(c, http.StatusForbidden, models.ResponseError, "Account not active")
		default:
			handleServiceError(c, err, "An error occurred while checking the remember token")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"type":     models.ResponseSuccess,
		"message":  "Welcome back " + result.User.DisplayUsername() + "!!!",
		"token":    result.AccessToken,
		"userData": models.NewUserData(result.User, true),
	})
}

// @Router /api/users/whoami [get]
func (h *AuthHandler) whoAmI(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized, "")
		return
	}
	c.JSON(http.StatusOK, whoAmIResponse{ID: user.ID.String(), Username: user.DisplayUsername()})
}

// sendEmail queues an activation or password change email.
// @Router /api/users/sendEmail [post]
func (h *AuthHandler) sendEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, models.ResponseError, service.MsgInvalidData)
		return
	}

	if err := h.authService.SendEmail(c.Request.Context(), req.Email, req.Type); err != nil {
		handleServiceError(c, err, "An error occurred while sending the email")
		return
	}

	emailsRequestedTotal.WithLabelValues(req.Type).Inc()
	respond(c, http.StatusOK, models.ResponseSuccess, "Email sent successfully")
}

// @Router /api/users/changePassword [put]
func (h *AuthHandler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, models.ResponseError, service.MsgInvalidData)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), int(req.VerificationCode), req.Password, req.RepeatPassword)
	verificationsTotal.WithLabelValues(string(models.PurposeChangePassword), status(err)).Inc()
	if err != nil {
		handleServiceError(c, err, "An error occurred while changing the password")
		return
	}

	zap.L().Info("Password updated via verification code")
	respond(c, http.StatusCreated, models.ResponseSuccess, "Password successfully updated")
}

// @Router /api/users/checkCode [post]
func (h *AuthHandler) checkCode(c *gin.Context) {
	var req checkCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, models.ResponseError, service.MsgInvalidData)
		return
	}

	err := h.authService.CheckCode(c.Request.Context(), int(req.VerificationCode))
	verificationsTotal.WithLabelValues(string(models.PurposeActivateAccount), status(err)).Inc()
	if err != nil {
		handleServiceError(c, err, "An error has occurred with the verification code")
		return
	}

	respond(c, http.StatusCreated, models.ResponseSuccess, "User successfully activated")
}
