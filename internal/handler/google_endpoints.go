package handler

import (
	"net/http"
	"net/url"
	"strings"

	"myfitapp/internal/models"
	"myfitapp/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgGoogleAuthFailed = "Failed to authenticate with Google"
	msgGoogleAuthError  = "An error occurred during Google authentication"
)

// googleStart sends the browser to the Google consent page.
// @Router /api/connect/google [get]
func (h *AuthHandler) googleStart(c *gin.Context) {
	state, err := h.authService.NewOAuthState(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to create OAuth state", zap.Error(err))
		h.redirectGoogleError(c, msgGoogleAuthError)
		return
	}
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// googleCheck is the OAuth callback. It always answers with a redirect to the
// frontend, carrying a one-time ticket on success.
// @Router /api/connect/google/check [get]
func (h *AuthHandler) googleCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if providerErr := c.Query("error"); providerErr != "" {
		h.logger.Info("Google returned an error", zap.String("error", providerErr))
		signInsTotal.WithLabelValues("google", "failure").Inc()
		h.redirectGoogleError(c, msgGoogleAuthFailed)
		return
	}

	if err := h.authService.ConsumeOAuthState(ctx, c.Query("state")); err != nil {
		h.logger.Warn("Invalid OAuth state on callback", zap.Error(err))
		signInsTotal.WithLabelValues("google", "failure").Inc()
		h.redirectGoogleError(c, msgGoogleAuthFailed)
		return
	}

	profile, err := h.google.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.logger.Warn("Google code exchange failed", zap.Error(err))
		signInsTotal.WithLabelValues("google", "failure").Inc()
		h.redirectGoogleError(c, msgGoogleAuthFailed)
		return
	}

	result, err := h.authService.GoogleLogin(ctx, *profile)
	signInsTotal.WithLabelValues("google", status(err)).Inc()
	if err != nil {
		h.logger.Error("Google login failed", zap.Error(err))
		h.redirectGoogleError(c, msgGoogleAuthError)
		return
	}

	q := url.Values{}
	q.Set("ticket", result.Ticket)
	q.Set("message", result.Message)
	path := "/checkGoogle"
	if result.Flow == models.FlowChangePassword {
		path = "/sendEmail"
		q.Set("type", models.FlowChangePassword)
	} else {
		q.Set("type", models.ResponseSuccess)
	}
	c.Redirect(http.StatusFound, h.frontendURL(path, q))
}

// redeemTicket exchanges the one-time ticket from the Google redirect.
// @Router /api/connect/ticket [post]
func (h *AuthHandler) redeemTicket(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Ticket) == "" {
		abortWith(c, http.StatusBadRequest, models.ResponseError, service.MsgInvalidData)
		return
	}

	redemption, err := h.authService.RedeemTicket(c.Request.Context(), req.Ticket)
	if err != nil {
		handleServiceError(c, err, msgGoogleAuthError)
		return
	}

	body := gin.H{
		"type":    models.ResponseSuccess,
		"message": "Ticket redeemed",
		"email":   redemption.Email,
		"flow":    redemption.Flow,
	}
	if redemption.Session != nil {
		body["message"] = service.MsgGoogleLoginSuccessful
		body["token"] = redemption.Session.AccessToken
		body["userData"] = models.NewUserData(redemption.Session.User, true)
	}
	c.JSON(http.StatusOK, body)
}

func (h *AuthHandler) redirectGoogleError(c *gin.Context, message string) {
	q := url.Values{}
	q.Set("type", models.ResponseError)
	q.Set("message", message)
	c.Redirect(http.StatusFound, h.frontendURL("/checkGoogle", q))
}

func (h *AuthHandler) frontendURL(path string, q url.Values) string {
	return strings.TrimRight(h.cfg.FrontendURL, "/") + path + "?" + q.Encode()
}
