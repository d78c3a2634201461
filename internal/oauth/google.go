package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myfitapp/internal/models"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrMissingCode     = errors.New("authorization code is missing")
	ErrEmailMissing    = errors.New("provider returned no email")
	ErrEmailUnverified = errors.New("provider email is not verified")
)

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleProvider runs the authorization-code flow against Google and reads
// the signed-in user's profile.
type GoogleProvider struct {
	cfg      *oauth2.Config
	endpoint string
	logger   *zap.Logger
}

// ProviderOption customizes a GoogleProvider.
type ProviderOption func(*GoogleProvider)

// WithEndpoints points the token exchange and userinfo calls at another host.
func WithEndpoints(authURL, tokenURL, apiBase string) ProviderOption {
	return func(p *GoogleProvider) {
		p.cfg.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams}
		p.endpoint = apiBase
	}
}

func NewGoogleProvider(cfg GoogleConfig, logger *zap.Logger, opts ...ProviderOption) *GoogleProvider {
	p := &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
		logger: logger.Named("GoogleProvider"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AuthCodeURL returns the consent page URL carrying state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and fetches the profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*models.OAuthProfile, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrMissingCode
	}

	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	opts := []option.ClientOption{option.WithHTTPClient(p.cfg.Client(ctx, tok))}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, ErrEmailMissing
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		return nil, ErrEmailUnverified
	}

	p.logger.Debug("Google profile fetched", zap.String("google_id", info.Id))
	return &models.OAuthProfile{
		ID:    info.Id,
		Email: strings.ToLower(info.Email),
		Name:  info.Name,
	}, nil
}
