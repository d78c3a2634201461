package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myfitapp/internal/config"
	"myfitapp/internal/logger"
	"myfitapp/internal/models"
	"myfitapp/internal/repository"
	"myfitapp/internal/secure"
	"myfitapp/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ AuthService = (*authServiceImpl)(nil)

// Client-facing validation messages.
const (
	MsgInvalidData             = "Invalid data"
	MsgInvalidEmail            = "Invalid email format"
	MsgInvalidUsername         = "Invalid username format"
	MsgInvalidPassword         = "Invalid password format"
	MsgPasswordsDontMatch      = "Passwords dont match"
	MsgInvalidType             = "Invalid type"
	MsgInvalidVerificationCode = "Invalid verification code format"
)

// rememberTokenBytes gives a 64 character hex token.
const rememberTokenBytes = 32

type authServiceImpl struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	oauth     repository.OAuthStateRepository
	publisher EmailPublisher
	composer  EmailComposer
	cfg       *config.Config
	logger    *zap.Logger
}

// Deps groups the collaborators of the auth service.
type Deps struct {
	Users     repository.UserRepository
	Sessions  repository.SessionRepository
	OAuth     repository.OAuthStateRepository
	Publisher EmailPublisher
	Composer  EmailComposer
}

func NewAuthService(deps Deps, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		users:     deps.Users,
		sessions:  deps.Sessions,
		oauth:     deps.OAuth,
		publisher: deps.Publisher,
		composer:  deps.Composer,
		cfg:       cfg,
		logger:    logger.Named("AuthService"),
	}
}

func (s *authServiceImpl) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	email := validation.NormalizeLogin(in.Email)
	username := validation.Sanitize(in.Username)

	if email == "" || username == "" || in.Password == "" || in.RepeatPassword == "" {
		return nil, models.NewValidationError(MsgInvalidData)
	}
	if !validation.IsEmail(email) {
		return nil, models.NewValidationError(MsgInvalidEmail)
	}
	if !validation.IsPassword(in.Password) || !validation.IsPassword(in.RepeatPassword) {
		return nil, models.NewValidationError(MsgInvalidPassword)
	}
	if !validation.IsSignUpUsername(username) {
		return nil, models.NewValidationError(MsgInvalidUsername)
	}

	logFields := []zap.Field{zap.String("email", email), zap.String("username", username)}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}
	if exists {
		s.logger.Info("Sign-up attempt for existing user", logFields...)
		return nil, models.ErrUserAlreadyExists
	}
	if in.Password != in.RepeatPassword {
		return nil, models.NewValidationError(MsgPasswordsDontMatch)
	}

	hash, err := hashPassword(in.Password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during sign-up", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Status:       models.StatusPending,
		RoleID:       models.RoleUserID,
		RoleName:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", append(logFields, zap.String("userID", user.ID.String()))...)
	return user, nil
}

func (s *authServiceImpl) SignIn(ctx context.Context, login, password string, rememberMe bool) (*models.SignInResult, error) {
	login = validation.NormalizeLogin(login)
	if login == "" || password == "" {
		return nil, models.NewValidationError(MsgInvalidData)
	}

	byEmail := validation.LooksLikeEmail(login)
	if byEmail && !validation.IsEmail(login) {
		return nil, models.NewValidationError(MsgInvalidEmail)
	}
	if !byEmail && !validation.IsSignInUsername(login) {
		return nil, models.NewValidationError(MsgInvalidUsername)
	}
	if !validation.IsPassword(password) {
		return nil, models.NewValidationError(MsgInvalidPassword)
	}

	var user *models.User
	var err error
	if byEmail {
		user, err = s.users.GetByEmail(ctx, login)
	} else {
		user, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil {
		return nil, err
	}

	switch user.Status {
	case models.StatusPending:
		return nil, models.ErrUserPending
	case models.StatusDeleted:
		return nil, models.ErrUserNotFound
	}

	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Info("Sign-in with wrong password", zap.String("userID", user.ID.String()))
		return nil, models.ErrInvalidCredentials
	}

	result := &models.SignInResult{User: user}
	result.AccessToken, result.ExpiresAt, err = s.issueSession(ctx, user, rememberMe)
	if err != nil {
		return nil, err
	}

	if rememberMe {
		raw, err := secure.RandomHex(rememberTokenBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to generate remember token: %w", err)
		}
		if err := s.users.SetRememberTokenHash(ctx, user.ID, secure.SHA256Hex(raw)); err != nil {
			return nil, fmt.Errorf("failed to store remember token: %w", err)
		}
		result.RememberToken = raw
	} else if user.RememberTokenHash != nil {
		if err := s.users.ClearRememberTokenHash(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to clear remember token: %w", err)
		}
	}

	s.logger.Info("User signed in", zap.String("userID", user.ID.String()), zap.Bool("remember", rememberMe))
	return result, nil
}

func (s *authServiceImpl) SignOut(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.ClearRememberTokenHash(ctx, userID); err != nil && !errors.Is(err, models.ErrUserNotFound) {
		return fmt.Errorf("failed to clear remember token: %w", err)
	}
	revoked, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	s.logger.Info("User signed out", zap.String("userID", userID.String()), zap.Int64("revokedSessions", revoked))
	return nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, accessToken string) (*models.User, *models.Claims, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, nil, models.ErrUnauthorized
	}

	claims, err := s.parseToken(accessToken)
	if err != nil {
		s.logger.Debug("Rejected access token", zap.Error(err))
		return nil, nil, models.ErrUnauthorized
	}

	userID, err := s.sessions.GetUserID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Debug("Session revoked or expired", zap.String("jti", claims.ID))
			return nil, nil, models.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("error checking session: %w", err)
	}
	if userID != claims.UserID {
		s.logger.Warn("Session does not belong to token subject", zap.String("jti", claims.ID))
		return nil, nil, models.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, nil, models.ErrUnauthorized
		}
		return nil, nil, err
	}
	if !user.IsActive() {
		return nil, nil, models.ErrUserNotActive
	}
	return user, claims, nil
}

func (s *authServiceImpl) RememberedUser(ctx context.Context, rememberToken string) (*models.SignInResult, error) {
	rememberToken = strings.TrimSpace(rememberToken)
	if rememberToken == "" {
		return nil, models.ErrTokenNotFound
	}

	user, err := s.users.GetByRememberTokenHash(ctx, secure.SHA256Hex(rememberToken))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Info("Unknown remember token", zap.String("prefix", logger.TokenPrefix(rememberToken)))
			return nil, models.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, models.ErrUserNotActive
	}

	result := &models.SignInResult{User: user}
	result.AccessToken, result.ExpiresAt, err = s.issueSession(ctx, user, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}
