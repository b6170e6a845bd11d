package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/pkg/apperror"
	"github.com/campusmarket/market-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
		user.CreditScore = models.InitialCreditScore
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestTokenManager() *TokenManager {
	return NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 720*time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Username: "student_ivan",
		Email:    "ivan@example.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "student_ivan", result.User.Username)
	assert.Equal(t, models.InitialCreditScore, result.User.CreditScore)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	assert.NotEqual(t, "secret123", result.User.PasswordHash)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Username: "student_ivan",
		Email:    "ivan@example.com",
		Password: "123",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repository.ErrUsernameTaken)

	_, err := svc.Register(ctx, RegisterInput{
		Username: "student_ivan",
		Email:    "ivan@example.com",
		Password: "secret123",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "занято")
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Username:     "student_ivan",
		PasswordHash: string(hash),
	}
	repo.On("GetByUsername", ctx, "student_ivan").Return(user, nil)

	result, err := svc.Login(ctx, LoginInput{Username: "student_ivan", Password: "secret123"})

	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: uuid.New(), Username: "student_ivan", PasswordHash: string(hash)}
	repo.On("GetByUsername", ctx, "student_ivan").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Username: "student_ivan", Password: "wrong"})

	assert.Error(t, err)
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	repo.On("GetByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(ctx, LoginInput{Username: "ghost", Password: "whatever"})

	assert.Error(t, err)
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	tokens := newTestTokenManager()
	svc := NewAuthService(repo, tokens)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Username: "student_ivan"}
	pair, err := tokens.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetByID", ctx, user.ID).Return(user, nil)

	newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-token")
	assert.Error(t, err)

	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeUnauthorized, appErr.Code)
}

func TestTokenManager_ParseAccess_RoundTrip(t *testing.T) {
	tokens := newTestTokenManager()
	user := &models.User{ID: uuid.New()}

	pair, err := tokens.GeneratePair(user)
	assert.NoError(t, err)

	userID, err := tokens.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = tokens.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
