package handler

import (
	"context"

	"myfitapp/internal/config"
	"myfitapp/internal/models"
	"myfitapp/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OAuthProvider is the external identity provider used by /api/connect.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.OAuthProfile, error)
}

type AuthHandler struct {
	authService service.AuthService
	google      OAuthProvider
	cfg         *config.Config
	logger      *zap.Logger
}

// NewAuthHandler wires the HTTP layer. google may be nil, in which case the
// Google routes are not registered.
func NewAuthHandler(authService service.AuthService, google OAuthProvider, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		google:      google,
		cfg:         cfg,
		logger:      logger.Named("AuthHandler"),
	}
}

// RegisterRoutes mounts the user and connect routes. rateLimit, when not nil,
// guards the endpoints that accept credentials or send email.
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, rateLimit gin.HandlerFunc) {
	limited := []gin.HandlerFunc{}
	if rateLimit != nil {
		limited = append(limited, rateLimit)
	}
	with := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, limited...), handlers...)
	}

	users := router.Group("/api/users")
	{
		users.POST("/signUp", with(h.signUp)...)
		users.POST("/signIn", with(h.signIn)...)
		users.POST("/signOut", h.AuthMiddleware(), h.signOut)
		users.POST("/tokenExisting", h.tokenExisting)
		users.GET("/whoami", h.AuthMiddleware(), h.whoAmI)
		users.POST("/sendEmail", with(h.sendEmail)...)
		users.PUT("/changePassword", with(h.changePassword)...)
		users.POST("/checkCode", with(h.checkCode)...)
	}

	connect := router.Group("/api/connect")
	{
		if h.google != nil {
			connect.GET("/google", h.googleStart)
			connect.GET("/google/check", h.googleCheck)
		} else {
			h.logger.Warn("Google OAuth is not configured, /api/connect/google routes disabled")
		}
		connect.POST("/ticket", with(h.redeemTicket)...)
	}
}
