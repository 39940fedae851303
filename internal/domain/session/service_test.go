package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) Validate(ctx context.Context, tokenHash string) (int64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(int64), args.Error(1)
}

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	userID := int64(123)

	// Хэш заранее неизвестен: проверяем только его наличие и срок жизни
	mockRepo.On("Create", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
		return hash != ""
	}), mock.MatchedBy(func(expiresAt time.Time) bool {
		return expiresAt.After(time.Now())
	})).Return(nil)

	token, err := service.Create(context.Background(), userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	// base64 от 32 байт — 44 символа с паддингом
	assert.Len(t, token, 44)

	mockRepo.AssertExpectations(t)
}

func TestService_Create_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, int64(123), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(errors.New("database error"))

	_, err := service.Create(context.Background(), int64(123))
	assert.Error(t, err)
}

func TestService_Validate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Validate", mock.Anything, mock.AnythingOfType("string")).Return(int64(7), nil)

	userID, err := service.Validate(context.Background(), "some-token")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestService_Validate_InvalidToken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Validate", mock.Anything, mock.AnythingOfType("string")).
		Return(int64(0), errors.New("invalid session"))

	_, err := service.Validate(context.Background(), "bad-token")
	assert.Error(t, err)
}

func TestService_Create_TokensDiffer(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, int64(1), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil)

	t1, err := service.Create(context.Background(), 1)
	assert.NoError(t, err)
	t2, err := service.Create(context.Background(), 1)
	assert.NoError(t, err)
	assert.NotEqual(t, t1, t2)
}
