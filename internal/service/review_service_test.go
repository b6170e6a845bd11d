package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/pkg/apperror"
	"github.com/campusmarket/market-backend/internal/repository"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review, creditDelta int) error {
	args := m.Called(ctx, review, creditDelta)
	if args.Error(0) == nil {
		review.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReviewRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByRevieweeID(ctx context.Context, revieweeID uuid.UUID, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, revieweeID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewRepo) GetAverageRating(ctx context.Context, userID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type mockTransactionRepoForReview struct {
	mock.Mock
}

func (m *mockTransactionRepoForReview) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusCompleted)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	reviewRepo.On("GetByTransactionID", ctx, txn.ID).Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*models.Review"), 5).Return(nil)

	comment := "Отличный продавец!"
	review, err := svc.CreateReview(ctx, txn.BuyerID, CreateReviewInput{
		TransactionID: txn.ID,
		RevieweeID:    txn.SellerID,
		Rating:        5,
		Comment:       &comment,
	})

	assert.NoError(t, err)
	assert.NotNil(t, review)
	assert.Equal(t, txn.SellerID, review.RevieweeID)
	assert.Equal(t, 5, review.Rating)
}

func TestReviewService_CreateReview_CreditDeltas(t *testing.T) {
	cases := []struct {
		rating int
		delta  int
	}{
		{1, -5},
		{2, -3},
		{3, 0},
		{4, 3},
		{5, 5},
	}

	for _, tc := range cases {
		reviewRepo := new(mockReviewRepo)
		txnRepo := new(mockTransactionRepoForReview)
		svc := NewReviewService(reviewRepo, txnRepo)
		ctx := context.Background()

		txn := newTransactionFixture(models.TransactionStatusCompleted)
		txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
		reviewRepo.On("GetByTransactionID", ctx, txn.ID).Return(nil, repository.ErrReviewNotFound)
		reviewRepo.On("Create", ctx, mock.AnythingOfType("*models.Review"), tc.delta).Return(nil)

		_, err := svc.CreateReview(ctx, txn.SellerID, CreateReviewInput{
			TransactionID: txn.ID,
			RevieweeID:    txn.BuyerID,
			Rating:        tc.rating,
		})

		assert.NoError(t, err, "оценка %d", tc.rating)
		reviewRepo.AssertExpectations(t)
	}
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, uuid.New(), CreateReviewInput{TransactionID: uuid.New(), RevieweeID: uuid.New(), Rating: 0})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.CreateReview(ctx, uuid.New(), CreateReviewInput{TransactionID: uuid.New(), RevieweeID: uuid.New(), Rating: 6})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReviewService_CreateReview_TransactionNotFound(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	txnID := uuid.New()
	txnRepo.On("GetByID", ctx, txnID).Return(nil, repository.ErrTransactionNotFound)

	_, err := svc.CreateReview(ctx, uuid.New(), CreateReviewInput{TransactionID: txnID, RevieweeID: uuid.New(), Rating: 4})
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReviewService_CreateReview_NotParticipant(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusCompleted)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	_, err := svc.CreateReview(ctx, uuid.New(), CreateReviewInput{TransactionID: txn.ID, RevieweeID: txn.SellerID, Rating: 4})
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReviewService_CreateReview_NotCompletedBeforeParticipantCheck(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	// Посторонний пользователь и незавершённая сделка: статус проверяется раньше участия.
	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	_, err := svc.CreateReview(ctx, uuid.New(), CreateReviewInput{TransactionID: txn.ID, RevieweeID: txn.SellerID, Rating: 4})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "после завершения")
}

func TestReviewService_CreateReview_SelfReview(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusCompleted)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	_, err := svc.CreateReview(ctx, txn.BuyerID, CreateReviewInput{TransactionID: txn.ID, RevieweeID: txn.BuyerID, Rating: 4})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "самому себе")
}

func TestReviewService_CreateReview_RevieweeNotCounterparty(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusCompleted)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	_, err := svc.CreateReview(ctx, txn.BuyerID, CreateReviewInput{TransactionID: txn.ID, RevieweeID: uuid.New(), Rating: 4})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "второй стороной")
}

func TestReviewService_CreateReview_TransactionNotCompleted(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	for _, status := range []models.TransactionStatus{
		models.TransactionStatusPending,
		models.TransactionStatusConfirmed,
		models.TransactionStatusCancelled,
	} {
		txn := newTransactionFixture(status)
		txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

		_, err := svc.CreateReview(ctx, txn.BuyerID, CreateReviewInput{TransactionID: txn.ID, RevieweeID: txn.SellerID, Rating: 4})
		assert.Error(t, err, "статус %s", status)
		assert.True(t, apperror.IsConflict(err))
		assert.Contains(t, err.Error(), "после завершения")
	}
}

func TestReviewService_CreateReview_AlreadyReviewed(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusCompleted)
	existing := &models.Review{ID: uuid.New(), TransactionID: txn.ID}

	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	reviewRepo.On("GetByTransactionID", ctx, txn.ID).Return(existing, nil)

	_, err := svc.CreateReview(ctx, txn.BuyerID, CreateReviewInput{TransactionID: txn.ID, RevieweeID: txn.SellerID, Rating: 4})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "уже оставлен")
}

func TestReviewService_CreateReview_DuplicateRace(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusCompleted)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	reviewRepo.On("GetByTransactionID", ctx, txn.ID).Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*models.Review"), 3).Return(repository.ErrReviewExists)

	_, err := svc.CreateReview(ctx, txn.BuyerID, CreateReviewInput{TransactionID: txn.ID, RevieweeID: txn.SellerID, Rating: 4})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestReviewService_GetTransactionReview_ParticipantOnly(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusCompleted)
	existing := &models.Review{ID: uuid.New(), TransactionID: txn.ID}
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	reviewRepo.On("GetByTransactionID", ctx, txn.ID).Return(existing, nil)

	review, err := svc.GetTransactionReview(ctx, txn.SellerID, txn.ID)
	assert.NoError(t, err)
	assert.Equal(t, existing.ID, review.ID)

	_, err = svc.GetTransactionReview(ctx, uuid.New(), txn.ID)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReviewService_ListUserReviews(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	userID := uuid.New()
	expected := []models.Review{{ID: uuid.New()}, {ID: uuid.New()}}
	reviewRepo.On("ListByRevieweeID", ctx, userID, 20, 0).Return(expected, nil)

	reviews, err := svc.ListUserReviews(ctx, userID, 20, 0)
	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestReviewService_GetUserRating(t *testing.T) {
	reviewRepo := new(mockReviewRepo)
	txnRepo := new(mockTransactionRepoForReview)
	svc := NewReviewService(reviewRepo, txnRepo)
	ctx := context.Background()

	userID := uuid.New()
	reviewRepo.On("GetAverageRating", ctx, userID).Return(4.5, 10, nil)

	avg, count, err := svc.GetUserRating(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 4.5, avg)
	assert.Equal(t, 10, count)
}
