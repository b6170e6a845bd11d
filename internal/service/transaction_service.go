package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/pkg/apperror"
	"github.com/campusmarket/market-backend/internal/repository"
)

// TransactionRepo описывает зависимости TransactionService от слоя хранилища.
type TransactionRepo interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetActiveByItem(ctx context.Context, itemID uuid.UUID) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, isBuyer bool, status *models.TransactionStatus, limit, offset int) ([]models.Transaction, error)
	Update(ctx context.Context, txn *models.Transaction, from models.TransactionStatus, itemStatus *models.ItemStatus) error
}

// ItemRepoForTransaction отдаёт товар для предпроверок сделки.
type ItemRepoForTransaction interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// TransactionService управляет жизненным циклом сделок.
type TransactionService struct {
	repo  TransactionRepo
	items ItemRepoForTransaction
}

// CreateTransactionInput содержит данные новой сделки.
type CreateTransactionInput struct {
	ItemID          uuid.UUID
	MeetingTime     *time.Time
	MeetingLocation *string
}

// UpdateTransactionInput содержит целевой статус и детали встречи.
// Nil означает «не менять»: без статуса обновляются только детали встречи.
type UpdateTransactionInput struct {
	Status          *models.TransactionStatus
	MeetingTime     *time.Time
	MeetingLocation *string
}

// NewTransactionService создаёт сервис сделок.
func NewTransactionService(repo TransactionRepo, items ItemRepoForTransaction) *TransactionService {
	return &TransactionService{repo: repo, items: items}
}

// CreateTransaction создаёт сделку со статусом pending и переводит товар
// в trading. Предпроверки дают точные сообщения об ошибках; гонку двух
// покупателей окончательно закрывает слой хранилища.
func (s *TransactionService) CreateTransaction(ctx context.Context, buyerID uuid.UUID, in CreateTransactionInput) (*models.Transaction, error) {
	item, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.Status != models.ItemStatusAvailable {
		return nil, apperror.New(apperror.ErrCodeConflict, "товар недоступен для покупки")
	}

	if item.UserID == buyerID {
		return nil, apperror.New(apperror.ErrCodeConflict, "нельзя купить собственный товар")
	}

	active, err := s.repo.GetActiveByItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "по этому товару уже есть активная сделка")
	}

	txn := &models.Transaction{
		ItemID:          in.ItemID,
		BuyerID:         buyerID,
		MeetingTime:     in.MeetingTime,
		MeetingLocation: in.MeetingLocation,
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			return nil, apperror.ErrItemNotFound
		case errors.Is(err, repository.ErrItemNotAvailable):
			return nil, apperror.New(apperror.ErrCodeConflict, "товар недоступен для покупки")
		case errors.Is(err, repository.ErrActiveTransactionExists):
			return nil, apperror.New(apperror.ErrCodeConflict, "по этому товару уже есть активная сделка")
		}
		return nil, err
	}

	return txn, nil
}

// GetTransaction возвращает сделку; доступна только её участникам.
func (s *TransactionService) GetTransaction(ctx context.Context, userID, txnID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, txnID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	if !txn.IsParticipant(userID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "сделка доступна только её участникам")
	}

	return txn, nil
}

// ListTransactions возвращает сделки пользователя в заданной роли.
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, isBuyer bool, status *models.TransactionStatus, limit, offset int) ([]models.Transaction, error) {
	if status != nil {
		if _, ok := models.ValidTransactionStatuses[*status]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый статус сделки")
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, isBuyer, status, limit, offset)
}

// UpdateTransaction меняет детали встречи и, если передан статус, переводит
// сделку по таблице переходов, синхронно меняя статус товара: completed
// освобождает товар как sold, cancelled возвращает его в available.
// Детали встречи доступны обеим сторонам в любом нетерминальном статусе.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, txnID uuid.UUID, in UpdateTransactionInput) (*models.Transaction, error) {
	if in.Status != nil {
		if _, ok := models.ValidTransactionStatuses[*in.Status]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый статус сделки")
		}
	}

	txn, err := s.repo.GetByID(ctx, txnID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	if !txn.IsParticipant(userID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "сделка доступна только её участникам")
	}

	if txn.Status.IsTerminal() {
		if txn.Status == models.TransactionStatusCompleted {
			return nil, apperror.New(apperror.ErrCodeConflict, "завершённую сделку нельзя изменить")
		}
		return nil, apperror.New(apperror.ErrCodeConflict, "отменённую сделку нельзя изменить")
	}

	from := txn.Status

	var itemStatus *models.ItemStatus
	if in.Status != nil {
		rule, ok := models.CanTransition(txn.Status, *in.Status)
		if !ok {
			return nil, apperror.New(apperror.ErrCodeConflict, "недопустимый переход статуса сделки")
		}

		if rule.SellerOnly && userID != txn.SellerID {
			return nil, apperror.New(apperror.ErrCodeForbidden, "подтвердить сделку может только продавец")
		}

		txn.Status = *in.Status
		switch *in.Status {
		case models.TransactionStatusCompleted:
			sold := models.ItemStatusSold
			itemStatus = &sold
		case models.TransactionStatusCancelled:
			available := models.ItemStatusAvailable
			itemStatus = &available
		}
	}

	if in.MeetingTime != nil {
		txn.MeetingTime = in.MeetingTime
	}
	if in.MeetingLocation != nil {
		txn.MeetingLocation = in.MeetingLocation
	}

	if err := s.repo.Update(ctx, txn, from, itemStatus); err != nil {
		switch {
		case errors.Is(err, repository.ErrTransactionNotFound):
			return nil, apperror.ErrTransactionNotFound
		case errors.Is(err, repository.ErrTransactionStateChanged):
			return nil, apperror.New(apperror.ErrCodeConflict, "сделка уже изменена другой стороной")
		}
		return nil, err
	}

	return txn, nil
}
