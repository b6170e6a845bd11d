package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/pkg/apperror"
	"github.com/campusmarket/market-backend/internal/repository"
	"github.com/campusmarket/market-backend/internal/validation"
)

// ReviewRepo описывает зависимости ReviewService от слоя хранилища.
type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review, creditDelta int) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*models.Review, error)
	ListByRevieweeID(ctx context.Context, revieweeID uuid.UUID, limit, offset int) ([]models.Review, error)
	GetAverageRating(ctx context.Context, userID uuid.UUID) (float64, int, error)
}

// TransactionRepoForReview отдаёт сделку для предпроверок отзыва.
type TransactionRepoForReview interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// ReviewService отвечает за отзывы и кредитный рейтинг.
type ReviewService struct {
	repo ReviewRepo
	txns TransactionRepoForReview
}

// CreateReviewInput содержит данные нового отзыва.
type CreateReviewInput struct {
	TransactionID uuid.UUID
	RevieweeID    uuid.UUID
	Rating        int
	Comment       *string
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(repo ReviewRepo, txns TransactionRepoForReview) *ReviewService {
	return &ReviewService{repo: repo, txns: txns}
}

// CreateReview создаёт отзыв по завершённой сделке и изменяет кредитный
// рейтинг второй стороны: 5 звёзд +5, 4 звезды +3, 3 без изменений,
// 2 звезды -3, 1 звезда -5, с нижней границей 0.
func (s *ReviewService) CreateReview(ctx context.Context, reviewerID uuid.UUID, in CreateReviewInput) (*models.Review, error) {
	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	txn, err := s.txns.GetByID(ctx, in.TransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	if txn.Status != models.TransactionStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeConflict, "отзыв можно оставить только после завершения сделки")
	}

	if !txn.IsParticipant(reviewerID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отзыв может оставить только участник сделки")
	}

	if in.RevieweeID == reviewerID {
		return nil, apperror.New(apperror.ErrCodeConflict, "нельзя оставить отзыв самому себе")
	}

	if in.RevieweeID != txn.OtherParticipant(reviewerID) {
		return nil, apperror.New(apperror.ErrCodeConflict, "получатель отзыва должен быть второй стороной сделки")
	}

	if _, err := s.repo.GetByTransactionID(ctx, in.TransactionID); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "на эту сделку уже оставлен отзыв")
	} else if !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, err
	}

	review := &models.Review{
		TransactionID: in.TransactionID,
		ReviewerID:    reviewerID,
		RevieweeID:    in.RevieweeID,
		Rating:        in.Rating,
		Comment:       in.Comment,
	}

	if err := s.repo.Create(ctx, review, models.CreditDeltaByRating[in.Rating]); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "на эту сделку уже оставлен отзыв")
		}
		return nil, err
	}

	return review, nil
}

// GetTransactionReview возвращает отзыв по сделке. Доступен только участникам.
func (s *ReviewService) GetTransactionReview(ctx context.Context, actorID, transactionID uuid.UUID) (*models.Review, error) {
	txn, err := s.txns.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}
	if !txn.IsParticipant(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "сделка доступна только её участникам")
	}

	review, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperror.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// ListUserReviews возвращает отзывы о пользователе.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByRevieweeID(ctx, userID, limit, offset)
}

// GetUserRating возвращает средний рейтинг и количество отзывов.
func (s *ReviewService) GetUserRating(ctx context.Context, userID uuid.UUID) (float64, int, error) {
	return s.repo.GetAverageRating(ctx, userID)
}
