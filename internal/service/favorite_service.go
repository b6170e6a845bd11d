package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/pkg/apperror"
	"github.com/campusmarket/market-backend/internal/repository"
)

// FavoriteRepo описывает зависимости FavoriteService от слоя хранилища.
type FavoriteRepo interface {
	Create(ctx context.Context, fav *models.Favorite) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Favorite, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	Exists(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
}

// ItemRepoForFavorite проверяет существование товара.
type ItemRepoForFavorite interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// FavoriteService отвечает за избранное.
type FavoriteService struct {
	repo  FavoriteRepo
	items ItemRepoForFavorite
}

// NewFavoriteService создаёт сервис избранного.
func NewFavoriteService(repo FavoriteRepo, items ItemRepoForFavorite) *FavoriteService {
	return &FavoriteService{repo: repo, items: items}
}

// AddFavorite добавляет товар в избранное пользователя.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, itemID uuid.UUID) (*models.Favorite, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	fav := &models.Favorite{UserID: userID, ItemID: itemID}
	if err := s.repo.Create(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrFavoriteExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "товар уже в избранном")
		}
		return nil, err
	}
	return fav, nil
}

// ListFavorites возвращает избранное пользователя.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Favorite, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// RemoveFavorite убирает товар из избранного.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "товара нет в избранном")
		}
		return err
	}
	return nil
}

// IsFavorite сообщает, есть ли товар в избранном пользователя.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, userID, itemID)
}
