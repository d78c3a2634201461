package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myfitapp/internal/database"
	"myfitapp/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var _ UserRepository = (*pgUserRepository)(nil)

const (
	pgUniqueViolation = "23505"

	selectUserFields = `
		SELECT u.id, u.email, u.username, u.password_hash, u.status, u.google_id,
		       u.verification_code, u.verification_purpose, u.verification_expires_at,
		       u.remember_token_hash, u.role_id, r.name AS role_name,
		       u.date_union, u.created_at, u.updated_at
		FROM users u
		JOIN roles r ON r.id = u.role_id`

	createUserQuery = `
		INSERT INTO users (email, username, password_hash, status, google_id, role_id, date_union)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_union, created_at, updated_at`

	existsByEmailOrUsernameQuery = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`
	usernameExistsQuery          = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	setVerificationCodeQuery = `
		UPDATE users
		SET verification_code = $2, verification_purpose = $3, verification_expires_at = $4, updated_at = NOW()
		WHERE id = $1`

	activateUserQuery = `
		UPDATE users
		SET status = 'active', verification_code = NULL, verification_purpose = NULL,
		    verification_expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	updatePasswordQuery = `
		UPDATE users
		SET password_hash = $2, verification_code = NULL, verification_purpose = NULL,
		    verification_expires_at = NULL, remember_token_hash = NULL, updated_at = NOW()
		WHERE id = $1`

	setRememberTokenQuery   = `UPDATE users SET remember_token_hash = $2, updated_at = NOW() WHERE id = $1`
	clearRememberTokenQuery = `UPDATE users SET remember_token_hash = NULL, updated_at = NOW() WHERE id = $1`
	setGoogleIDQuery        = `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1`
	setStatusQuery          = `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`
)

type pgUserRepository struct {
	db     database.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a PostgreSQL-backed UserRepository.
func NewPgUserRepository(db database.DBTX, logger *zap.Logger) UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

func (r *pgUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Status == "" {
		user.Status = models.StatusPending
	}
	if user.RoleID == 0 {
		user.RoleID = models.RoleUserID
	}
	if user.DateUnion.IsZero() {
		user.DateUnion = time.Now().UTC()
	}

	err := r.db.QueryRow(ctx, createUserQuery,
		user.Email, user.Username, user.PasswordHash, string(user.Status), user.GoogleID, user.RoleID, user.DateUnion,
	).Scan(&user.ID, &user.DateUnion, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Warn("Attempted to create duplicate user",
				zap.String("email", user.Email),
				zap.String("username", user.Username),
				zap.String("constraint", pgErr.ConstraintName),
			)
			return models.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to create user in postgres", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}
	if user.RoleName == "" && user.RoleID == models.RoleUserID {
		user.RoleName = models.RoleUser
	}

	r.logger.Info("User created", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return nil
}

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "id", selectUserFields+` WHERE u.id = $1`, id)
}

func (r *pgUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", selectUserFields+` WHERE u.email = $1`, email)
}

func (r *pgUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username", selectUserFields+` WHERE u.username = $1`, username)
}

func (r *pgUserRepository) GetByVerificationCode(ctx context.Context, code int, purpose models.CodePurpose) (*models.User, error) {
	query := selectUserFields + `
		WHERE u.verification_code = $1
		  AND u.verification_purpose = $2
		  AND (u.verification_expires_at IS NULL OR u.verification_expires_at > NOW())`
	return r.getOne(ctx, "verification_code", query, code, string(purpose))
}

func (r *pgUserRepository) GetByRememberTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.getOne(ctx, "remember_token_hash", selectUserFields+` WHERE u.remember_token_hash = $1`, tokenHash)
}

// getOne scans a single user row. lookup only names the key for logs.
func (r *pgUserRepository) getOne(ctx context.Context, lookup, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			r.logger.Debug("User not found", zap.String("lookup", lookup))
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user from postgres", zap.String("lookup", lookup), zap.Error(err))
		return nil, fmt.Errorf("failed to get user by %s: %w", lookup, err)
	}
	return &user, nil
}

func (r *pgUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, existsByEmailOrUsernameQuery, email, username).Scan(&exists); err != nil {
		r.logger.Error("Failed to check user existence", zap.Error(err))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

func (r *pgUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, usernameExistsQuery, username).Scan(&exists); err != nil {
		r.logger.Error("Failed to check username existence", zap.Error(err))
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

func (r *pgUserRepository) SetVerificationCode(ctx context.Context, userID uuid.UUID, code int, purpose models.CodePurpose, expiresAt time.Time) error {
	err := r.execOne(ctx, "set verification code", setVerificationCodeQuery, userID, code, string(purpose), expiresAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return models.ErrVerificationCodeInUse
	}
	return err
}

func (r *pgUserRepository) Activate(ctx context.Context, userID uuid.UUID) error {
	return r.execOne(ctx, "activate user", activateUserQuery, userID)
}

func (r *pgUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.execOne(ctx, "update password", updatePasswordQuery, userID, passwordHash)
}

func (r *pgUserRepository) SetRememberTokenHash(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	return r.execOne(ctx, "set remember token", setRememberTokenQuery, userID, tokenHash)
}

func (r *pgUserRepository) ClearRememberTokenHash(ctx context.Context, userID uuid.UUID) error {
	return r.execOne(ctx, "clear remember token", clearRememberTokenQuery, userID)
}

func (r *pgUserRepository) SetGoogleID(ctx context.Context, userID uuid.UUID, googleID string) error {
	err := r.execOne(ctx, "set google id", setGoogleIDQuery, userID, googleID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return models.ErrUserAlreadyExists
	}
	return err
}

func (r *pgUserRepository) SetStatus(ctx context.Context, userID uuid.UUID, status models.UserStatus) error {
	return r.execOne(ctx, "set status", setStatusQuery, userID, string(status))
}

// execOne runs an UPDATE that must touch exactly one row.
func (r *pgUserRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return pgErr
		}
		r.logger.Error("Failed to "+op, zap.Error(err))
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("No rows updated", zap.String("op", op))
		return models.ErrUserNotFound
	}
	r.logger.Debug("User updated", zap.String("op", op))
	return nil
}
