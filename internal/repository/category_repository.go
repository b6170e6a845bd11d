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
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create создаёт категорию; имя уникально.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query, category.Name, category.Description).Scan(&category.ID)
	if err != nil {
		if common.IsUniqueViolation(err, "categories_name_key") {
			return ErrCategoryExists
		}
		return fmt.Errorf("category repository: create %w", err)
	}
	return nil
}

// GetByID возвращает категорию по ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return common.GetByID[models.Category](ctx, r.db, "categories", id, ErrCategoryNotFound)
}

// List возвращает все категории.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name`)
	return categories, err
}
