package models

// CodePurpose names what a verification code unlocks.
type CodePurpose string

const (
	PurposeActivateAccount CodePurpose = "activateAccount"
	PurposeChangePassword  CodePurpose = "changePassword"
)

// Valid reports whether p is a known purpose.
func (p CodePurpose) Valid() bool {
	return p == PurposeActivateAccount || p == PurposeChangePassword
}

const (
	MinVerificationCode = 100000
	MaxVerificationCode = 999999
)
