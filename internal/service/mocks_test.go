package service

import (
	"context"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/llm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindActive(ctx context.Context, conversationID string) (*domain.Session, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *domain.Session, example *domain.ReplyExample) error {
	args := m.Called(ctx, session, example)
	return args.Error(0)
}

func (m *MockSessionRepository) ListByConversation(ctx context.Context, conversationID string, limit int) ([]domain.SessionRecord, error) {
	args := m.Called(ctx, conversationID, limit)
	return args.Get(0).([]domain.SessionRecord), args.Error(1)
}

// MockProfileRepository mocks the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Ensure(ctx context.Context, profile *domain.AccountProfile) (bool, error) {
	args := m.Called(ctx, profile)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) GetByConversationID(ctx context.Context, conversationID string) (*domain.AccountProfile, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountProfile), args.Error(1)
}

func (m *MockProfileRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.AccountProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountProfile), args.Error(1)
}

// MockDirectory mocks the AccountDirectory interface
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// MockPersonRepository mocks the PersonRepository interface
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Create(ctx context.Context, person *domain.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}

func (m *MockPersonRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Person, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Person), args.Error(1)
}

func (m *MockPersonRepository) Update(ctx context.Context, person *domain.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReplyExampleRepository mocks the ReplyExampleRepository interface
type MockReplyExampleRepository struct {
	mock.Mock
}

func (m *MockReplyExampleRepository) Create(ctx context.Context, example *domain.ReplyExample) error {
	args := m.Called(ctx, example)
	return args.Error(0)
}

func (m *MockReplyExampleRepository) ListRecentByPerson(ctx context.Context, personID uuid.UUID, limit int) ([]domain.ReplyExample, error) {
	args := m.Called(ctx, personID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReplyExample), args.Error(1)
}

// MockGenerator mocks the ReplyGenerator interface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateReply(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// MockHandler mocks the MessageHandler interface
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Handle(ctx context.Context, conversationID, text string) ([]domain.OutboundMessage, error) {
	args := m.Called(ctx, conversationID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutboundMessage), args.Error(1)
}

// MockReplier mocks the Replier interface
type MockReplier struct {
	mock.Mock
}

func (m *MockReplier) Reply(ctx context.Context, replyToken string, messages []domain.OutboundMessage) error {
	args := m.Called(ctx, replyToken, messages)
	return args.Error(0)
}
