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

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	if args.Error(0) == nil {
		txn.ID = uuid.New()
		txn.Status = models.TransactionStatusPending
	}
	return args.Error(0)
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) GetActiveByItem(ctx context.Context, itemID uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, isBuyer bool, status *models.TransactionStatus, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, isBuyer, status, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) Update(ctx context.Context, txn *models.Transaction, from models.TransactionStatus, itemStatus *models.ItemStatus) error {
	args := m.Called(ctx, txn, from, itemStatus)
	return args.Error(0)
}

func statusPtr(s models.TransactionStatus) *models.TransactionStatus {
	return &s
}

type mockItemRepoForTransaction struct {
	mock.Mock
}

func (m *mockItemRepoForTransaction) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func newTransactionFixture(status models.TransactionStatus) *models.Transaction {
	return &models.Transaction{
		ID:       uuid.New(),
		ItemID:   uuid.New(),
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Status:   status,
	}
}

func TestTransactionService_CreateTransaction_Success(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	itemID := uuid.New()

	item := &models.Item{ID: itemID, UserID: sellerID, Status: models.ItemStatusAvailable}
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	txnRepo.On("GetActiveByItem", ctx, itemID).Return(nil, nil)
	txnRepo.On("Create", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

	txn, err := svc.CreateTransaction(ctx, buyerID, CreateTransactionInput{ItemID: itemID})

	assert.NoError(t, err)
	assert.NotNil(t, txn)
	assert.Equal(t, buyerID, txn.BuyerID)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
}

func TestTransactionService_CreateTransaction_ItemNotFound(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	itemID := uuid.New()
	itemRepo.On("GetByID", ctx, itemID).Return(nil, repository.ErrItemNotFound)

	_, err := svc.CreateTransaction(ctx, uuid.New(), CreateTransactionInput{ItemID: itemID})
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestTransactionService_CreateTransaction_ItemNotAvailable(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, UserID: uuid.New(), Status: models.ItemStatusSold}
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.CreateTransaction(ctx, uuid.New(), CreateTransactionInput{ItemID: itemID})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "недоступен")
}

func TestTransactionService_CreateTransaction_OwnItem(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	buyerID := uuid.New()
	itemID := uuid.New()
	item := &models.Item{ID: itemID, UserID: buyerID, Status: models.ItemStatusAvailable}
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.CreateTransaction(ctx, buyerID, CreateTransactionInput{ItemID: itemID})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "собственный товар")
}

func TestTransactionService_CreateTransaction_ActiveExists(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, UserID: uuid.New(), Status: models.ItemStatusAvailable}
	active := newTransactionFixture(models.TransactionStatusPending)

	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	txnRepo.On("GetActiveByItem", ctx, itemID).Return(active, nil)

	_, err := svc.CreateTransaction(ctx, uuid.New(), CreateTransactionInput{ItemID: itemID})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "активная сделка")
}

func TestTransactionService_CreateTransaction_RaceClosedByStorage(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, UserID: uuid.New(), Status: models.ItemStatusAvailable}
	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	txnRepo.On("GetActiveByItem", ctx, itemID).Return(nil, nil)
	txnRepo.On("Create", ctx, mock.AnythingOfType("*models.Transaction")).Return(repository.ErrActiveTransactionExists)

	_, err := svc.CreateTransaction(ctx, uuid.New(), CreateTransactionInput{ItemID: itemID})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestTransactionService_UpdateTransaction_ConfirmBySeller(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	txnRepo.On("Update", ctx, mock.AnythingOfType("*models.Transaction"), models.TransactionStatusPending, (*models.ItemStatus)(nil)).Return(nil)

	updated, err := svc.UpdateTransaction(ctx, txn.SellerID, txn.ID, UpdateTransactionInput{
		Status: statusPtr(models.TransactionStatusConfirmed),
	})

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusConfirmed, updated.Status)
}

func TestTransactionService_UpdateTransaction_ConfirmByBuyerForbidden(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	_, err := svc.UpdateTransaction(ctx, txn.BuyerID, txn.ID, UpdateTransactionInput{
		Status: statusPtr(models.TransactionStatusConfirmed),
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Contains(t, err.Error(), "только продавец")
}

func TestTransactionService_UpdateTransaction_CompleteSetsItemSold(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusConfirmed)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	txnRepo.On("Update", ctx, mock.AnythingOfType("*models.Transaction"), models.TransactionStatusConfirmed, mock.MatchedBy(func(s *models.ItemStatus) bool {
		return s != nil && *s == models.ItemStatusSold
	})).Return(nil)

	updated, err := svc.UpdateTransaction(ctx, txn.BuyerID, txn.ID, UpdateTransactionInput{
		Status: statusPtr(models.TransactionStatusCompleted),
	})

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, updated.Status)
	txnRepo.AssertExpectations(t)
}

func TestTransactionService_UpdateTransaction_CancelReturnsItemAvailable(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	for _, from := range []models.TransactionStatus{models.TransactionStatusPending, models.TransactionStatusConfirmed} {
		txn := newTransactionFixture(from)
		txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
		txnRepo.On("Update", ctx, mock.AnythingOfType("*models.Transaction"), from, mock.MatchedBy(func(s *models.ItemStatus) bool {
			return s != nil && *s == models.ItemStatusAvailable
		})).Return(nil)

		updated, err := svc.UpdateTransaction(ctx, txn.BuyerID, txn.ID, UpdateTransactionInput{
			Status: statusPtr(models.TransactionStatusCancelled),
		})

		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCancelled, updated.Status)
	}
}

func TestTransactionService_UpdateTransaction_PendingToCompletedConflict(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	_, err := svc.UpdateTransaction(ctx, txn.BuyerID, txn.ID, UpdateTransactionInput{
		Status: statusPtr(models.TransactionStatusCompleted),
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "недопустимый переход")
}

func TestTransactionService_UpdateTransaction_TerminalFrozen(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	completed := newTransactionFixture(models.TransactionStatusCompleted)
	txnRepo.On("GetByID", ctx, completed.ID).Return(completed, nil)

	_, err := svc.UpdateTransaction(ctx, completed.BuyerID, completed.ID, UpdateTransactionInput{
		Status: statusPtr(models.TransactionStatusCancelled),
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "завершённую")

	cancelled := newTransactionFixture(models.TransactionStatusCancelled)
	txnRepo.On("GetByID", ctx, cancelled.ID).Return(cancelled, nil)

	_, err = svc.UpdateTransaction(ctx, cancelled.SellerID, cancelled.ID, UpdateTransactionInput{
		Status: statusPtr(models.TransactionStatusConfirmed),
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "отменённую")
}

func TestTransactionService_UpdateTransaction_NotParticipant(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	_, err := svc.UpdateTransaction(ctx, uuid.New(), txn.ID, UpdateTransactionInput{
		Status: statusPtr(models.TransactionStatusCancelled),
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestTransactionService_UpdateTransaction_MeetingSetIfProvided(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	location := "главный корпус"
	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	txnRepo.On("Update", ctx, mock.AnythingOfType("*models.Transaction"), models.TransactionStatusPending, (*models.ItemStatus)(nil)).Return(nil)

	updated, err := svc.UpdateTransaction(ctx, txn.SellerID, txn.ID, UpdateTransactionInput{
		Status:          statusPtr(models.TransactionStatusConfirmed),
		MeetingLocation: &location,
	})

	assert.NoError(t, err)
	assert.NotNil(t, updated.MeetingLocation)
	assert.Equal(t, location, *updated.MeetingLocation)
	assert.Nil(t, updated.MeetingTime)
}

func TestTransactionService_UpdateTransaction_MeetingOnlyWithoutStatus(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	location := "библиотека, 2 этаж"
	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	txnRepo.On("Update", ctx, mock.AnythingOfType("*models.Transaction"), models.TransactionStatusPending, (*models.ItemStatus)(nil)).Return(nil)

	updated, err := svc.UpdateTransaction(ctx, txn.BuyerID, txn.ID, UpdateTransactionInput{
		MeetingLocation: &location,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, updated.Status)
	assert.NotNil(t, updated.MeetingLocation)
	assert.Equal(t, location, *updated.MeetingLocation)
	txnRepo.AssertExpectations(t)
}

func TestTransactionService_UpdateTransaction_MeetingOnlyOnTerminalConflict(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	location := "главный корпус"
	txn := newTransactionFixture(models.TransactionStatusCompleted)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	_, err := svc.UpdateTransaction(ctx, txn.BuyerID, txn.ID, UpdateTransactionInput{
		MeetingLocation: &location,
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "завершённую")
}

func TestTransactionService_UpdateTransaction_ConcurrentStateChange(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	txnRepo.On("Update", ctx, mock.AnythingOfType("*models.Transaction"), models.TransactionStatusPending, mock.Anything).Return(repository.ErrTransactionStateChanged)

	_, err := svc.UpdateTransaction(ctx, txn.SellerID, txn.ID, UpdateTransactionInput{
		Status: statusPtr(models.TransactionStatusConfirmed),
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Contains(t, err.Error(), "уже изменена")
}

func TestTransactionService_GetTransaction_ParticipantOnly(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	txn := newTransactionFixture(models.TransactionStatusPending)
	txnRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)

	got, err := svc.GetTransaction(ctx, txn.BuyerID, txn.ID)
	assert.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)

	_, err = svc.GetTransaction(ctx, uuid.New(), txn.ID)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestTransactionService_ListTransactions_InvalidStatus(t *testing.T) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTransaction)
	svc := NewTransactionService(txnRepo, itemRepo)
	ctx := context.Background()

	bad := models.TransactionStatus("shipped")
	_, err := svc.ListTransactions(ctx, uuid.New(), true, &bad, 20, 0)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
