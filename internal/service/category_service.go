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

// CategoryRepo описывает зависимости CategoryService от слоя хранилища.
type CategoryRepo interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// CategoryService отвечает за справочник категорий.
type CategoryService struct {
	repo CategoryRepo
}

// NewCategoryService создаёт сервис категорий.
func NewCategoryService(repo CategoryRepo) *CategoryService {
	return &CategoryService{repo: repo}
}

// CreateCategory создаёт категорию с уникальным именем.
func (s *CategoryService) CreateCategory(ctx context.Context, name string, description *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateNonEmpty("название категории", name); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("название категории", name, 1, validation.MaxCategoryName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	category := &models.Category{Name: name, Description: description}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "категория с таким названием уже существует")
		}
		return nil, err
	}
	return category, nil
}

// GetCategory возвращает категорию по ID.
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperror.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListCategories возвращает все категории.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}
