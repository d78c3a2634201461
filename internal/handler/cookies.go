package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *AuthHandler) setRememberCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.RememberCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.RememberTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.RememberCookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearRememberCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.RememberCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.RememberCookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) rememberCookie(c *gin.Context) string {
	token, err := c.Cookie(h.cfg.RememberCookieName)
	if err != nil {
		return ""
	}
	return token
}
