package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus is the activation state of an account.
type UserStatus string

const (
	StatusPending UserStatus = "pending"
	StatusActive  UserStatus = "active"
	StatusDeleted UserStatus = "deleted"
)

// User represents a user in the system.
type User struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	Email                 string     `db:"email" json:"email"`
	Username              string     `db:"username" json:"username"`
	PasswordHash          string     `db:"password_hash" json:"-"`
	Status                UserStatus `db:"status" json:"status"`
	GoogleID              *string    `db:"google_id" json:"-"`
	VerificationCode      *int       `db:"verification_code" json:"-"`
	VerificationPurpose   *string    `db:"verification_purpose" json:"-"`
	VerificationExpiresAt *time.Time `db:"verification_expires_at" json:"-"`
	RememberTokenHash     *string    `db:"remember_token_hash" json:"-"`
	RoleID                int        `db:"role_id" json:"roleId"`
	RoleName              string     `db:"role_name" json:"role"`
	DateUnion             time.Time  `db:"date_union" json:"dateUnion"`
	CreatedAt             time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the account may hold a session.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// DisplayUsername is the name shown to the user in responses.
func (u *User) DisplayUsername() string {
	return u.Username
}
