package models

// Role ids match the rows seeded by the roles migration.
const (
	RoleUserID  = 1
	RoleAdminID = 2

	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)
