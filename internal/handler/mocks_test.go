package handler

import (
	"context"

	"myfitapp/internal/models"
	"myfitapp/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var _ service.AuthService = (*AuthServiceMock)(nil)

// AuthServiceMock mocks service.AuthService for handler tests.
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) SignUp(ctx context.Context, in service.SignUpInput) (*models.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *AuthServiceMock) SignIn(ctx context.Context, login, password string, rememberMe bool) (*models.SignInResult, error) {
	args := m.Called(ctx, login, password, rememberMe)
	r, _ := args.Get(0).(*models.SignInResult)
	return r, args.Error(1)
}

func (m *AuthServiceMock) SignOut(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *AuthServiceMock) Authenticate(ctx context.Context, accessToken string) (*models.User, *models.Claims, error) {
	args := m.Called(ctx, accessToken)
	u, _ := args.Get(0).(*models.User)
	c, _ := args.Get(1).(*models.Claims)
	return u, c, args.Error(2)
}

func (m *AuthServiceMock) RememberedUser(ctx context.Context, rememberToken string) (*models.SignInResult, error) {
	args := m.Called(ctx, rememberToken)
	r, _ := args.Get(0).(*models.SignInResult)
	return r, args.Error(1)
}

func (m *AuthServiceMock) SendEmail(ctx context.Context, email, emailType string) error {
	args := m.Called(ctx, email, emailType)
	return args.Error(0)
}

func (m *AuthServiceMock) ChangePassword(ctx context.Context, code int, password, repeatPassword string) error {
	args := m.Called(ctx, code, password, repeatPassword)
	return args.Error(0)
}

func (m *AuthServiceMock) CheckCode(ctx context.Context, code int) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *AuthServiceMock) NewOAuthState(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *AuthServiceMock) ConsumeOAuthState(ctx context.Context, state string) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *AuthServiceMock) GoogleLogin(ctx context.Context, profile models.OAuthProfile) (*models.GoogleLoginResult, error) {
	args := m.Called(ctx, profile)
	r, _ := args.Get(0).(*models.GoogleLoginResult)
	return r, args.Error(1)
}

func (m *AuthServiceMock) RedeemTicket(ctx context.Context, ticket string) (*models.TicketRedemption, error) {
	args := m.Called(ctx, ticket)
	r, _ := args.Get(0).(*models.TicketRedemption)
	return r, args.Error(1)
}

// GoogleProviderMock mocks OAuthProvider.
type GoogleProviderMock struct {
	mock.Mock
}

func (m *GoogleProviderMock) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *GoogleProviderMock) Exchange(ctx context.Context, code string) (*models.OAuthProfile, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(*models.OAuthProfile)
	return p, args.Error(1)
}
