package service

import (
	"context"

	"myfitapp/internal/models"

	"github.com/google/uuid"
)

// AuthService drives the account state machine: sign-up, sign-in, sessions,
// verification codes and the Google handoff.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, login, password string, rememberMe bool) (*models.SignInResult, error)
	SignOut(ctx context.Context, userID uuid.UUID) error

	// Authenticate resolves a bearer token to an active user.
	// Returns models.ErrUnauthorized or models.ErrUserNotActive.
	Authenticate(ctx context.Context, accessToken string) (*models.User, *models.Claims, error)

	// RememberedUser signs a user back in from a remember-me token.
	RememberedUser(ctx context.Context, rememberToken string) (*models.SignInResult, error)

	SendEmail(ctx context.Context, email, emailType string) error
	ChangePassword(ctx context.Context, code int, password, repeatPassword string) error
	CheckCode(ctx context.Context, code int) error

	NewOAuthState(ctx context.Context) (string, error)
	ConsumeOAuthState(ctx context.Context, state string) error
	GoogleLogin(ctx context.Context, profile models.OAuthProfile) (*models.GoogleLoginResult, error)
	RedeemTicket(ctx context.Context, ticket string) (*models.TicketRedemption, error)
}

// SignUpInput is the raw registration form.
type SignUpInput struct {
	Email          string
	Username       string
	Password       string
	RepeatPassword string
}

// EmailPublisher queues an email for delivery.
type EmailPublisher interface {
	PublishEmail(ctx context.Context, msg models.EmailMessage) error
}

// EmailComposer renders the verification emails.
type EmailComposer interface {
	Compose(purpose models.CodePurpose, to, username string, code int) (*models.EmailMessage, error)
}
