package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myfitapp/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenIssuer = "myfitapp-auth"

// issueSession signs an access token for user and registers its JTI.
// remember selects the long remember-me lifetime.
func (s *authServiceImpl) issueSession(ctx context.Context, user *models.User, remember bool) (string, time.Time, error) {
	ttl := s.cfg.SessionTokenTTL
	if remember {
		ttl = s.cfg.RememberTokenTTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	jti := uuid.NewString()

	roles := []string{models.RoleUser}
	if user.RoleName != "" {
		roles = []string{user.RoleName}
	}

	claims := &models.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    roles,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.String("userID", user.ID.String()), zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	if err := s.sessions.Save(ctx, models.Session{ID: jti, UserID: user.ID, ExpiresAt: expiresAt}); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to register session: %w", err)
	}
	return signed, expiresAt, nil
}

// parseToken validates the signature and expiry of an access token.
func (s *authServiceImpl) parseToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, models.ErrTokenMalformed
		default:
			return nil, models.ErrTokenInvalid
		}
	}
	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}
