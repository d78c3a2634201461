package models

import (
	"time"

	"github.com/google/uuid"
)

// SignInResult is what a successful sign-in hands back to the transport layer.
type SignInResult struct {
	User          *User
	AccessToken   string
	ExpiresAt     time.Time
	RememberToken string // empty unless remember me was requested
}

// Session is a live access token registered in the session store.
type Session struct {
	ID        string
	UserID    uuid.UUID
	ExpiresAt time.Time
}
