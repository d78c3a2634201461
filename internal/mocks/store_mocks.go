package mocks

import (
	"context"
	"time"

	"myfitapp/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// SessionRepository mocks repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Save(ctx context.Context, session models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionRepository) GetUserID(ctx context.Context, sessionID string) (uuid.UUID, error) {
	args := m.Called(ctx, sessionID)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

func (m *SessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// OAuthStateRepository mocks repository.OAuthStateRepository.
type OAuthStateRepository struct {
	mock.Mock
}

func (m *OAuthStateRepository) SaveState(ctx context.Context, state string, ttl time.Duration) error {
	args := m.Called(ctx, state, ttl)
	return args.Error(0)
}

func (m *OAuthStateRepository) ConsumeState(ctx context.Context, state string) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *OAuthStateRepository) SaveTicket(ctx context.Context, ticket string, payload models.OAuthTicket, ttl time.Duration) error {
	args := m.Called(ctx, ticket, payload, ttl)
	return args.Error(0)
}

func (m *OAuthStateRepository) ConsumeTicket(ctx context.Context, ticket string) (*models.OAuthTicket, error) {
	args := m.Called(ctx, ticket)
	t, _ := args.Get(0).(*models.OAuthTicket)
	return t, args.Error(1)
}

// EmailPublisher mocks service.EmailPublisher.
type EmailPublisher struct {
	mock.Mock
}

func (m *EmailPublisher) PublishEmail(ctx context.Context, msg models.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// EmailComposer mocks service.EmailComposer.
type EmailComposer struct {
	mock.Mock
}

func (m *EmailComposer) Compose(purpose models.CodePurpose, to, username string, code int) (*models.EmailMessage, error) {
	args := m.Called(purpose, to, username, code)
	msg, _ := args.Get(0).(*models.EmailMessage)
	return msg, args.Error(1)
}
