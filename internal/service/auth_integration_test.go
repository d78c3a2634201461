package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"myfitapp/internal/config"
	"myfitapp/internal/database"
	"myfitapp/internal/mailer"
	"myfitapp/internal/models"
	"myfitapp/internal/repository"
	"myfitapp/internal/service"

	"github.com/docker/docker/client"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// recordingPublisher keeps queued emails in memory.
type recordingPublisher struct {
	mu   sync.Mutex
	sent []models.EmailMessage
}

func (p *recordingPublisher) PublishEmail(_ context.Context, msg models.EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func (p *recordingPublisher) last() models.EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent[len(p.sent)-1]
}

type AuthIntegrationSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	rdContainer *tcredis.RedisContainer
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	publisher   *recordingPublisher
	authService service.AuthService
	logger      *zap.Logger
}

func (s *AuthIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = zap.NewNop()
	var err error

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("myfitapp_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	s.Require().NoError(err, "Failed to start postgres container")

	dsn, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pgPool, err = database.Connect(s.ctx, database.PoolConfig{DSN: dsn, MaxRetries: 5, RetryDelay: time.Second}, s.logger)
	s.Require().NoError(err)
	s.Require().NoError(database.NewMigrator(s.pgPool, s.logger).Up(s.ctx))

	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(time.Minute),
		),
	)
	s.Require().NoError(err, "Failed to start redis container")

	host, err := s.rdContainer.Host(s.ctx)
	s.Require().NoError(err)
	port, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	s.Require().NoError(err)
	s.redisClient = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.Require().NoError(s.redisClient.Ping(s.ctx).Err())

	cfg := &config.Config{
		JWTSecret:           "integration-jwt-secret",
		PasswordPepper:      "integration-pepper",
		SessionTokenTTL:     5 * time.Minute,
		RememberTokenTTL:    time.Hour,
		VerificationCodeTTL: time.Hour,
		OAuthStateTTL:       time.Minute,
		OAuthTicketTTL:      time.Minute,
		FrontendURL:         "http://localhost:5173",
	}

	renderer, err := mailer.NewRenderer(cfg.FrontendURL, cfg.VerificationCodeTTL, s.logger)
	s.Require().NoError(err)

	s.userRepo = repository.NewPgUserRepository(s.pgPool, s.logger)
	s.sessionRepo = repository.NewRedisSessionRepository(s.redisClient, s.logger)
	s.publisher = &recordingPublisher{}
	s.authService = service.NewAuthService(service.Deps{
		Users:     s.userRepo,
		Sessions:  s.sessionRepo,
		OAuth:     repository.NewRedisOAuthRepository(s.redisClient, s.logger),
		Publisher: s.publisher,
		Composer:  renderer,
	}, cfg, s.logger)
}

func (s *AuthIntegrationSuite) TearDownSuite() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
	if s.rdContainer != nil {
		_ = s.rdContainer.Terminate(s.ctx)
	}
}

func (s *AuthIntegrationSuite) SetupTest() {
	s.Require().NoError(s.redisClient.FlushDB(s.ctx).Err())
	_, err := s.pgPool.Exec(s.ctx, "TRUNCATE TABLE users CASCADE")
	s.Require().NoError(err)
}

func TestAuthIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("Docker client init error: %v", err)
	}
	defer cli.Close()
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Skipf("Docker daemon is not reachable: %v", err)
	}

	suite.Run(t, new(AuthIntegrationSuite))
}

func (s *AuthIntegrationSuite) signUpAndActivate(email, username, password string) *models.User {
	_, err := s.authService.SignUp(s.ctx, service.SignUpInput{
		Email: email, Username: username, Password: password, RepeatPassword: password,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.authService.SendEmail(s.ctx, email, string(models.PurposeActivateAccount)))
	user, err := s.userRepo.GetByEmail(s.ctx, email)
	s.Require().NoError(err)
	s.Require().NotNil(user.VerificationCode)

	s.Require().NoError(s.authService.CheckCode(s.ctx, *user.VerificationCode))
	user, err = s.userRepo.GetByEmail(s.ctx, email)
	s.Require().NoError(err)
	return user
}

func (s *AuthIntegrationSuite) TestActivationAndRememberMe() {
	_, err := s.authService.SignUp(s.ctx, service.SignUpInput{
		Email: "Runner@Gmail.com", Username: "runner01", Password: "Secret1!", RepeatPassword: "Secret1!",
	})
	s.Require().NoError(err)

	_, err = s.authService.SignIn(s.ctx, "runner01", "Secret1!", false)
	s.Require().ErrorIs(err, models.ErrUserPending)

	_, err = s.authService.SignUp(s.ctx, service.SignUpInput{
		Email: "runner@gmail.com", Username: "other01", Password: "Secret1!", RepeatPassword: "Secret1!",
	})
	s.Require().ErrorIs(err, models.ErrUserAlreadyExists)

	s.Require().NoError(s.authService.SendEmail(s.ctx, "runner@gmail.com", "activateAccount"))
	msg := s.publisher.last()
	s.Equal("runner@gmail.com", msg.To)
	s.Equal(models.PurposeActivateAccount, msg.Kind)

	user, err := s.userRepo.GetByEmail(s.ctx, "runner@gmail.com")
	s.Require().NoError(err)
	s.Require().NotNil(user.VerificationCode)
	s.Contains(msg.HTML, fmt.Sprintf("checkCode=%d", *user.VerificationCode))

	s.Require().NoError(s.authService.CheckCode(s.ctx, *user.VerificationCode))
	s.Require().ErrorIs(s.authService.CheckCode(s.ctx, *user.VerificationCode), models.ErrInvalidVerificationCode)
	s.Require().ErrorIs(s.authService.SendEmail(s.ctx, "runner@gmail.com", "activateAccount"), models.ErrUserAlreadyActive)

	result, err := s.authService.SignIn(s.ctx, "runner@gmail.com", "Secret1!", true)
	s.Require().NoError(err)
	s.Require().NotEmpty(result.RememberToken)

	authed, claims, err := s.authService.Authenticate(s.ctx, result.AccessToken)
	s.Require().NoError(err)
	s.Equal(user.ID, authed.ID)
	s.Equal([]string{models.RoleUser}, claims.Roles)

	remembered, err := s.authService.RememberedUser(s.ctx, result.RememberToken)
	s.Require().NoError(err)
	s.Equal("runner01", remembered.User.Username)
	s.Equal(models.RoleUser, remembered.User.RoleName)

	s.Require().NoError(s.authService.SignOut(s.ctx, user.ID))

	_, _, err = s.authService.Authenticate(s.ctx, result.AccessToken)
	s.ErrorIs(err, models.ErrUnauthorized)
	_, _, err = s.authService.Authenticate(s.ctx, remembered.AccessToken)
	s.ErrorIs(err, models.ErrUnauthorized)
	_, err = s.authService.RememberedUser(s.ctx, result.RememberToken)
	s.ErrorIs(err, models.ErrTokenInvalid)
}

func (s *AuthIntegrationSuite) TestChangePasswordRevokesSessions() {
	s.signUpAndActivate("lifter@gmail.com", "lifter01", "OldPass1!")

	session, err := s.authService.SignIn(s.ctx, "lifter01", "OldPass1!", true)
	s.Require().NoError(err)

	s.Require().NoError(s.authService.SendEmail(s.ctx, "lifter@gmail.com", "changePassword"))
	user, err := s.userRepo.GetByEmail(s.ctx, "lifter@gmail.com")
	s.Require().NoError(err)
	s.Require().NotNil(user.VerificationCode)

	s.Require().ErrorIs(s.authService.CheckCode(s.ctx, *user.VerificationCode), models.ErrInvalidVerificationCode)
	s.Require().NoError(s.authService.ChangePassword(s.ctx, *user.VerificationCode, "NewPass2?", "NewPass2?"))

	_, _, err = s.authService.Authenticate(s.ctx, session.AccessToken)
	s.ErrorIs(err, models.ErrUnauthorized)
	_, err = s.authService.RememberedUser(s.ctx, session.RememberToken)
	s.ErrorIs(err, models.ErrTokenInvalid)

	_, err = s.authService.SignIn(s.ctx, "lifter01", "OldPass1!", false)
	s.ErrorIs(err, models.ErrInvalidCredentials)
	_, err = s.authService.SignIn(s.ctx, "lifter@gmail.com", "NewPass2?", false)
	s.NoError(err)
}

func (s *AuthIntegrationSuite) TestGoogleLoginAndTicket() {
	state, err := s.authService.NewOAuthState(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.authService.ConsumeOAuthState(s.ctx, state))
	s.Require().ErrorIs(s.authService.ConsumeOAuthState(s.ctx, state), models.ErrOAuthStateInvalid)

	created, err := s.authService.GoogleLogin(s.ctx, models.OAuthProfile{ID: "g-100", Email: "newbie@gmail.com", Name: "New Bie"})
	s.Require().NoError(err)
	s.True(created.Created)
	s.Equal(models.FlowChangePassword, created.Flow)

	user, err := s.userRepo.GetByEmail(s.ctx, "newbie@gmail.com")
	s.Require().NoError(err)
	s.Equal(models.StatusActive, user.Status)
	s.Require().NotNil(user.GoogleID)
	s.Equal("g-100", *user.GoogleID)

	redemption, err := s.authService.RedeemTicket(s.ctx, created.Ticket)
	s.Require().NoError(err)
	s.Equal("newbie@gmail.com", redemption.Email)
	s.Nil(redemption.Session)

	_, err = s.authService.RedeemTicket(s.ctx, created.Ticket)
	s.ErrorIs(err, models.ErrTicketNotFound)

	again, err := s.authService.GoogleLogin(s.ctx, models.OAuthProfile{ID: "g-100", Email: "newbie@gmail.com", Name: "New Bie"})
	s.Require().NoError(err)
	s.Equal(models.FlowSuccess, again.Flow)

	redemption, err = s.authService.RedeemTicket(s.ctx, again.Ticket)
	s.Require().NoError(err)
	s.Require().NotNil(redemption.Session)
	_, _, err = s.authService.Authenticate(s.ctx, redemption.Session.AccessToken)
	s.NoError(err)
}

func (s *AuthIntegrationSuite) TestDeletedAccountIsLockedOut() {
	user := s.signUpAndActivate("ghost@gmail.com", "ghost01", "Ghost1!x")
	s.Require().NoError(s.userRepo.SetStatus(s.ctx, user.ID, models.StatusDeleted))

	_, err := s.authService.SignIn(s.ctx, "ghost01", "Ghost1!x", false)
	s.ErrorIs(err, models.ErrUserNotFound)
	s.ErrorIs(s.authService.SendEmail(s.ctx, "ghost@gmail.com", "changePassword"), models.ErrUserNotFound)

	_, err = s.authService.GoogleLogin(s.ctx, models.OAuthProfile{ID: "g-ghost", Email: "ghost@gmail.com"})
	s.ErrorIs(err, models.ErrUserNotActive)
}

func (s *AuthIntegrationSuite) TestSessionStore() {
	userID := s.signUpAndActivate("store@gmail.com", "store01", "Store1!x").ID
	session := models.Session{ID: "jti-1", UserID: userID, ExpiresAt: time.Now().Add(time.Minute)}
	s.Require().NoError(s.sessionRepo.Save(s.ctx, session))

	got, err := s.sessionRepo.GetUserID(s.ctx, "jti-1")
	s.Require().NoError(err)
	s.Equal(userID, got)

	revoked, err := s.sessionRepo.DeleteByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(int64(1), revoked)
	_, err = s.sessionRepo.GetUserID(s.ctx, "jti-1")
	s.ErrorIs(err, models.ErrTokenNotFound)
}
