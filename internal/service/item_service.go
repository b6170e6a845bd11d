package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/pkg/apperror"
	"github.com/campusmarket/market-backend/internal/repository"
	"github.com/campusmarket/market-backend/internal/validation"
)

// ItemRepo описывает зависимости ItemService от слоя хранилища.
type ItemRepo interface {
	Create(ctx context.Context, item *models.Item, imageURLs []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context, filter repository.ItemListFilter) ([]models.Item, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepoForItem проверяет существование категории.
type CategoryRepoForItem interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// TransactionRepoForItem отдаёт активную сделку по товару.
type TransactionRepoForItem interface {
	GetActiveByItem(ctx context.Context, itemID uuid.UUID) (*models.Transaction, error)
}

// ItemService отвечает за каталог товаров.
type ItemService struct {
	repo       ItemRepo
	categories CategoryRepoForItem
	txns       TransactionRepoForItem
}

// CreateItemInput содержит данные нового товара.
type CreateItemInput struct {
	Title       string
	Description *string
	Price       *float64
	Location    *string
	CategoryID  *uuid.UUID
	ImageURLs   []string
}

// UpdateItemInput содержит изменяемые поля товара. Nil означает «не менять».
type UpdateItemInput struct {
	Title       *string
	Description *string
	Price       *float64
	Status      *models.ItemStatus
	Location    *string
	CategoryID  *uuid.UUID
}

// NewItemService создаёт сервис товаров.
func NewItemService(repo ItemRepo, categories CategoryRepoForItem, txns TransactionRepoForItem) *ItemService {
	return &ItemService{repo: repo, categories: categories, txns: txns}
}

// CreateItem публикует товар от имени пользователя.
func (s *ItemService) CreateItem(ctx context.Context, userID uuid.UUID, in CreateItemInput) (*models.Item, error) {
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidateNonEmpty("название товара", title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("название товара", title, 1, validation.MaxItemTitleLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена не может быть отрицательной")
	}

	if in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, apperror.ErrCategoryNotFound
			}
			return nil, err
		}
	}

	item := &models.Item{
		Title:       title,
		Description: in.Description,
		Price:       in.Price,
		Location:    in.Location,
		CategoryID:  in.CategoryID,
		UserID:      userID,
	}

	if err := s.repo.Create(ctx, item, in.ImageURLs); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem возвращает товар с фотографиями.
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListItems возвращает товары по фильтру.
func (s *ItemService) ListItems(ctx context.Context, filter repository.ItemListFilter) ([]models.Item, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// ListUserItems возвращает товары пользователя.
func (s *ItemService) ListUserItems(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Item, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// UpdateItem меняет товар; разрешено только владельцу.
// Статус товара, находящегося в активной сделке, меняется только сделкой.
func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, in UpdateItemInput) (*models.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.UserID != userID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "редактировать товар может только владелец")
	}

	if in.Status != nil {
		if _, ok := models.ValidItemStatuses[*in.Status]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый статус товара")
		}
		if item.Status == models.ItemStatusTrading && *in.Status != item.Status {
			return nil, apperror.New(apperror.ErrCodeConflict, "статус товара в активной сделке меняется только сделкой")
		}
		if *in.Status == models.ItemStatusTrading && item.Status != models.ItemStatusTrading {
			return nil, apperror.New(apperror.ErrCodeConflict, "статус trading выставляется только созданием сделки")
		}
		item.Status = *in.Status
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.ValidateNonEmpty("название товара", title); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		item.Title = title
	}
	if in.Description != nil {
		item.Description = in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperror.New(apperror.ErrCodeValidation, "цена не может быть отрицательной")
		}
		item.Price = in.Price
	}
	if in.Location != nil {
		item.Location = in.Location
	}
	if in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, apperror.ErrCategoryNotFound
			}
			return nil, err
		}
		item.CategoryID = in.CategoryID
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// DeleteItem удаляет товар; запрещено при активной сделке.
func (s *ItemService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	if item.UserID != userID {
		return apperror.New(apperror.ErrCodeForbidden, "удалить товар может только владелец")
	}

	active, err := s.txns.GetActiveByItem(ctx, itemID)
	if err != nil {
		return err
	}
	if active != nil {
		return apperror.New(apperror.ErrCodeConflict, "нельзя удалить товар с активной сделкой")
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return apperror.ErrItemNotFound
		}
		return err
	}
	return nil
}
