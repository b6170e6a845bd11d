package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/repository/common"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("transaction already reviewed")
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв и изменяет кредитный рейтинг получателя одной
// транзакцией. Уникальное ограничение на transaction_id закрывает гонку
// двух одновременных отзывов; при creditDelta = 0 рейтинг не трогается вовсе.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review, creditDelta int) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO reviews (transaction_id, reviewer_id, reviewee_id, rating, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`
		err := tx.QueryRowxContext(ctx, query,
			review.TransactionID, review.ReviewerID, review.RevieweeID, review.Rating, review.Comment,
		).Scan(&review.ID, &review.CreatedAt)
		if err != nil {
			if common.IsUniqueViolation(err, "reviews_transaction_id_key") {
				return ErrReviewExists
			}
			return fmt.Errorf("review repository: create %w", err)
		}

		if creditDelta == 0 {
			return nil
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE users SET credit_score = GREATEST(0, credit_score + $2), updated_at = NOW()
			WHERE id = $1
		`, review.RevieweeID, creditDelta)
		if err != nil {
			return fmt.Errorf("review repository: adjust credit score %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// GetByTransactionID возвращает отзыв по сделке.
func (r *ReviewRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE transaction_id = $1`, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("review repository: get by transaction %w", err)
	}
	return &review, nil
}

// ListByRevieweeID возвращает отзывы о пользователе, новые первыми.
func (r *ReviewRepository) ListByRevieweeID(ctx context.Context, revieweeID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE reviewee_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, revieweeID, limit, offset)
	return reviews, err
}

// GetAverageRating возвращает средний рейтинг пользователя и число отзывов.
func (r *ReviewRepository) GetAverageRating(ctx context.Context, userID uuid.UUID) (float64, int, error) {
	var result struct {
		Avg   sql.NullFloat64 `db:"avg"`
		Count int             `db:"count"`
	}
	err := r.db.GetContext(ctx, &result, `
		SELECT COALESCE(AVG(rating), 0) as avg, COUNT(*) as count FROM reviews WHERE reviewee_id = $1
	`, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("review repository: get average rating %w", err)
	}
	return result.Avg.Float64, result.Count, nil
}
