package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myfitapp/internal/models"
	"myfitapp/internal/secure"
	"myfitapp/internal/validation"

	"go.uber.org/zap"
)

// maxCodeAttempts bounds retries when a generated code collides with one in use.
const maxCodeAttempts = 5

func (s *authServiceImpl) SendEmail(ctx context.Context, email, emailType string) error {
	email = validation.NormalizeLogin(email)
	if email == "" || emailType == "" {
		return models.NewValidationError(MsgInvalidData)
	}
	if !validation.IsEmail(email) {
		return models.NewValidationError(MsgInvalidEmail)
	}
	purpose := models.CodePurpose(emailType)
	if !purpose.Valid() {
		return models.NewValidationError(MsgInvalidType)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Status == models.StatusDeleted {
		return models.ErrUserNotFound
	}
	if purpose == models.PurposeActivateAccount && user.Status != models.StatusPending {
		return models.ErrUserAlreadyActive
	}

	code, err := s.issueCode(ctx, user, purpose)
	if err != nil {
		return err
	}

	msg, err := s.composer.Compose(purpose, user.Email, user.DisplayUsername(), code)
	if err != nil {
		return fmt.Errorf("failed to compose email: %w", err)
	}
	if err := s.publisher.PublishEmail(ctx, *msg); err != nil {
		return fmt.Errorf("failed to queue email: %w", err)
	}

	s.logger.Info("Verification email queued", zap.String("userID", user.ID.String()), zap.String("purpose", string(purpose)))
	return nil
}

// issueCode stores a fresh six-digit code for user, replacing any previous one.
func (s *authServiceImpl) issueCode(ctx context.Context, user *models.User, purpose models.CodePurpose) (int, error) {
	expiresAt := time.Now().Add(s.cfg.VerificationCodeTTL)
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := secure.RandomInt(models.MinVerificationCode, models.MaxVerificationCode)
		if err != nil {
			return 0, err
		}
		err = s.users.SetVerificationCode(ctx, user.ID, code, purpose, expiresAt)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, models.ErrVerificationCodeInUse) {
			return 0, err
		}
		s.logger.Debug("Verification code collision, retrying", zap.Int("attempt", attempt))
	}
	return 0, fmt.Errorf("could not allocate a unique verification code after %d attempts", maxCodeAttempts)
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, code int, password, repeatPassword string) error {
	if password == "" || repeatPassword == "" {
		return models.NewValidationError(MsgInvalidData)
	}
	if !validation.IsVerificationCode(code) {
		return models.NewValidationError(MsgInvalidVerificationCode)
	}
	if !validation.IsPassword(password) || !validation.IsPassword(repeatPassword) {
		return models.NewValidationError(MsgInvalidPassword)
	}
	if password != repeatPassword {
		return models.NewValidationError(MsgPasswordsDontMatch)
	}

	user, err := s.users.GetByVerificationCode(ctx, code, models.PurposeChangePassword)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrInvalidVerificationCode
		}
		return err
	}

	hash, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	// The password is already changed at this point, a failed revoke only leaves
	// old sessions to expire on their own.
	if _, err := s.sessions.DeleteByUserID(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to revoke sessions after password change", zap.String("userID", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("Password changed", zap.String("userID", user.ID.String()))
	return nil
}

// CheckCode activates the account holding code. A missing code arrives as 0
// and fails the format check.
func (s *authServiceImpl) CheckCode(ctx context.Context, code int) error {
	if !validation.IsVerificationCode(code) {
		return models.NewValidationError(MsgInvalidVerificationCode)
	}

	user, err := s.users.GetByVerificationCode(ctx, code, models.PurposeActivateAccount)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrInvalidVerificationCode
		}
		return err
	}
	if err := s.users.Activate(ctx, user.ID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.ErrInvalidVerificationCode
		}
		return err
	}

	s.logger.Info("User activated", zap.String("userID", user.ID.String()))
	return nil
}
