package models

import "time"

// Response types used by the frontend to pick a notification style.
const (
	ResponseSuccess = "success"
	ResponseError   = "error"
	ResponseWarning = "warning"
	ResponseInfo    = "info"
)

// APIResponse is the envelope of every JSON answer.
type APIResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// UserData is the user summary returned after sign-in.
type UserData struct {
	ID        string    `json:"this_user_id"`
	Email     string    `json:"this_user_email"`
	Username  string    `json:"this_user_username"`
	RoleID    int       `json:"this_user_role_id,omitempty"`
	Role      string    `json:"this_user_role,omitempty"`
	DateUnion time.Time `json:"this_user_date_union"`
}

// NewUserData builds the summary for u. Role fields are included only when withRole is set.
func NewUserData(u *User, withRole bool) UserData {
	d := UserData{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.DisplayUsername(),
		DateUnion: u.DateUnion,
	}
	if withRole {
		d.RoleID = u.RoleID
		d.Role = u.RoleName
	}
	return d
}
