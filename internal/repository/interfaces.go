package repository

import (
	"context"
	"time"

	"myfitapp/internal/models"

	"github.com/google/uuid"
)

// UserRepository persists accounts in PostgreSQL.
type UserRepository interface {
	// Create inserts user and fills in the generated id and timestamps.
	// Returns models.ErrUserAlreadyExists on a duplicate email or username.
	Create(ctx context.Context, user *models.User) error

	// GetByID, GetByEmail and GetByUsername return models.ErrUserNotFound when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByEmailOrUsername reports whether either value is already taken.
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// GetByVerificationCode finds the user holding an unexpired code issued for purpose.
	GetByVerificationCode(ctx context.Context, code int, purpose models.CodePurpose) (*models.User, error)

	// SetVerificationCode replaces the user's code. Returns
	// models.ErrVerificationCodeInUse when another account holds the same code.
	SetVerificationCode(ctx context.Context, userID uuid.UUID, code int, purpose models.CodePurpose, expiresAt time.Time) error

	// Activate moves a pending user to active and consumes the code.
	Activate(ctx context.Context, userID uuid.UUID) error

	// UpdatePassword stores a new hash, consumes the code and drops the remember token.
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	GetByRememberTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	SetRememberTokenHash(ctx context.Context, userID uuid.UUID, tokenHash string) error
	ClearRememberTokenHash(ctx context.Context, userID uuid.UUID) error

	SetGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error
	SetStatus(ctx context.Context, userID uuid.UUID, status models.UserStatus) error
}

// SessionRepository tracks live access tokens by JTI so they can be revoked.
type SessionRepository interface {
	Save(ctx context.Context, session models.Session) error

	// GetUserID returns models.ErrTokenNotFound for unknown or expired sessions.
	GetUserID(ctx context.Context, sessionID string) (uuid.UUID, error)

	// DeleteByUserID revokes every session of the user and returns how many were removed.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// OAuthStateRepository keeps the short-lived values of the Google flow.
type OAuthStateRepository interface {
	SaveState(ctx context.Context, state string, ttl time.Duration) error
	// ConsumeState deletes state and returns models.ErrOAuthStateInvalid when it was unknown.
	ConsumeState(ctx context.Context, state string) error

	SaveTicket(ctx context.Context, ticket string, payload models.OAuthTicket, ttl time.Duration) error
	// ConsumeTicket returns the payload once, then models.ErrTicketNotFound.
	ConsumeTicket(ctx context.Context, ticket string) (*models.OAuthTicket, error)
}
