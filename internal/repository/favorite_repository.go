package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/repository/common"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrFavoriteExists   = errors.New("item already in favorites")
)

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create добавляет товар в избранное; повторное добавление отклоняется.
func (r *FavoriteRepository) Create(ctx context.Context, fav *models.Favorite) error {
	query := `
		INSERT INTO favorites (user_id, item_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, fav.UserID, fav.ItemID).Scan(&fav.ID, &fav.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, "favorites_user_id_item_id_key") {
			return ErrFavoriteExists
		}
		return fmt.Errorf("favorite repository: create %w", err)
	}
	return nil
}

// ListByUser возвращает избранное пользователя, новые записи первыми.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.SelectContext(ctx, &favorites, `
		SELECT * FROM favorites WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("favorite repository: list by user %w", err)
	}
	return favorites, nil
}

// Delete убирает товар из избранного пользователя.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND item_id = $2
	`, userID, itemID)
	if err != nil {
		return fmt.Errorf("favorite repository: delete %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// Exists сообщает, есть ли товар в избранном пользователя.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND item_id = $2)
	`, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("favorite repository: exists %w", err)
	}
	return exists, nil
}
