package ratelimit

import (
	"net/http"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TooManyRequestsMessage is returned with 429 responses.
const TooManyRequestsMessage = "Too many requests, please try again later"

const keyPrefix = "ratelimit:auth:"

// Key identifies the caller per route and client IP.
func Key(c *gin.Context) string {
	return keyPrefix + c.FullPath() + ":" + c.ClientIP()
}

// Middleware limits requests per route and client IP using store.
func Middleware(store rateli.Store, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("RateLimit")
	return rateli.RateLimiter(store, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			log.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.String("path", c.FullPath()),
				zap.Time("resetTime", info.ResetTime),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"type":    "error",
				"message": TooManyRequestsMessage,
			})
		},
		KeyFunc: Key,
	})
}
