package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"myfitapp/internal/models"
	"myfitapp/internal/secure"
	"myfitapp/internal/validation"

	"go.uber.org/zap"
)

const (
	MsgGoogleLoginSuccessful = "Login successful"
	MsgGoogleUserCreated     = "User successfully created"

	minUsernameLength     = 5
	maxUsernameLength     = 20
	maxUsernameAttempts   = 10
	generatedPasswordSize = 16
	oauthStateBytes       = 16
	oauthTicketBytes      = 32

	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()-_=+?"
)

func (s *authServiceImpl) NewOAuthState(ctx context.Context) (string, error) {
	state, err := secure.RandomHex(oauthStateBytes)
	if err != nil {
		return "", err
	}
	if err := s.oauth.SaveState(ctx, state, s.cfg.OAuthStateTTL); err != nil {
		return "", err
	}
	return state, nil
}

func (s *authServiceImpl) ConsumeOAuthState(ctx context.Context, state string) error {
	return s.oauth.ConsumeState(ctx, state)
}

// GoogleLogin links or creates the account behind a Google profile and
// returns a one-time ticket for the frontend.
func (s *authServiceImpl) GoogleLogin(ctx context.Context, profile models.OAuthProfile) (*models.GoogleLoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" || profile.ID == "" {
		return nil, fmt.Errorf("incomplete google profile: %w", models.ErrProviderFailure)
	}

	result := &models.GoogleLoginResult{}
	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Status == models.StatusDeleted {
			return nil, models.ErrUserNotActive
		}
		if user.GoogleID == nil {
			if err := s.users.SetGoogleID(ctx, user.ID, profile.ID); err != nil {
				return nil, fmt.Errorf("failed to link google account: %w", err)
			}
		}
		result.Flow = models.FlowSuccess
		result.Message = MsgGoogleLoginSuccessful

	case errors.Is(err, models.ErrUserNotFound):
		user, err = s.createGoogleUser(ctx, email, profile)
		if err != nil {
			return nil, err
		}
		result.Flow = models.FlowChangePassword
		result.Message = MsgGoogleUserCreated
		result.Created = true

	default:
		return nil, err
	}

	ticket, err := secure.RandomHex(oauthTicketBytes)
	if err != nil {
		return nil, err
	}
	payload := models.OAuthTicket{Email: user.Email, Flow: result.Flow}
	if err := s.oauth.SaveTicket(ctx, ticket, payload, s.cfg.OAuthTicketTTL); err != nil {
		return nil, err
	}
	result.Ticket = ticket

	s.logger.Info("Google login handled",
		zap.String("userID", user.ID.String()),
		zap.String("flow", result.Flow),
		zap.Bool("created", result.Created),
	)
	return result, nil
}

func (s *authServiceImpl) createGoogleUser(ctx context.Context, email string, profile models.OAuthProfile) (*models.User, error) {
	username, err := s.generateUsername(ctx, profile.Name, email)
	if err != nil {
		return nil, err
	}
	password, err := generatePassword()
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	googleID := profile.ID
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Status:       models.StatusActive,
		GoogleID:     &googleID,
		RoleID:       models.RoleUserID,
		RoleName:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authServiceImpl) RedeemTicket(ctx context.Context, ticket string) (*models.TicketRedemption, error) {
	payload, err := s.oauth.ConsumeTicket(ctx, strings.TrimSpace(ticket))
	if err != nil {
		return nil, err
	}
	out := &models.TicketRedemption{Email: payload.Email, Flow: payload.Flow}
	if payload.Flow != models.FlowSuccess {
		return out, nil
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return out, nil
	}
	session := &models.SignInResult{User: user}
	session.AccessToken, session.ExpiresAt, err = s.issueSession(ctx, user, false)
	if err != nil {
		return nil, err
	}
	out.Session = session
	return out, nil
}

// usernameBase derives a lowercase alphanumeric candidate from the display
// name, falling back to the email local part.
func usernameBase(name, email string) string {
	base := alnumLower(name)
	if base == "" {
		local, _, _ := strings.Cut(email, "@")
		base = alnumLower(local)
	}
	if len(base) < minUsernameLength {
		base = "user" + base
	}
	for len(base) < minUsernameLength {
		base += "0"
	}
	if len(base) > maxUsernameLength {
		base = base[:maxUsernameLength]
	}
	return base
}

func alnumLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *authServiceImpl) generateUsername(ctx context.Context, name, email string) (string, error) {
	base := usernameBase(name, email)
	candidate := base
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		if validation.IsSignUpUsername(candidate) {
			taken, err := s.users.UsernameExists(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !taken {
				return candidate, nil
			}
		}
		n, err := secure.RandomInt(1000, 9999)
		if err != nil {
			return "", err
		}
		suffix := strconv.Itoa(n)
		prefix := base
		if len(prefix)+len(suffix) > maxUsernameLength {
			prefix = prefix[:maxUsernameLength-len(suffix)]
		}
		candidate = prefix + suffix
	}
	return "", fmt.Errorf("could not generate a free username for %q", base)
}

// generatePassword returns a random password that satisfies the password policy.
func generatePassword() (string, error) {
	classes := []string{lowerChars, upperChars, digitChars, specialChars}
	all := strings.Join(classes, "")

	buf := make([]byte, 0, generatedPasswordSize)
	for _, class := range classes {
		c, err := secure.RandomString(class, 1)
		if err != nil {
			return "", err
		}
		buf = append(buf, c...)
	}
	rest, err := secure.RandomString(all, generatedPasswordSize-len(buf))
	if err != nil {
		return "", err
	}
	buf = append(buf, rest...)

	for i := len(buf) - 1; i > 0; i-- {
		j, err := secure.RandomInt(0, i)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}
