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

var ErrItemNotFound = errors.New("item not found")

// ItemListFilter описывает параметры выборки товаров.
type ItemListFilter struct {
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	Status     *models.ItemStatus
	Limit      int
	Offset     int
}

type ItemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create сохраняет товар вместе со ссылками на фотографии.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item, imageURLs []string) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO items (title, description, price, location, category_id, user_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, status, created_at, updated_at
		`
		err := tx.QueryRowxContext(ctx, query,
			item.Title, item.Description, item.Price, item.Location, item.CategoryID, item.UserID,
		).Scan(&item.ID, &item.Status, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("item repository: create %w", err)
		}

		if len(imageURLs) == 0 {
			return nil
		}

		inserter := common.NewBatchInserter(tx, `INSERT INTO item_images (item_id, image_url)`, 2, 100)
		for _, url := range imageURLs {
			if err := inserter.Add(ctx, item.ID, url); err != nil {
				return err
			}
		}
		return inserter.Flush(ctx)
	})
}

// GetByID возвращает товар с фотографиями.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := common.GetByID[models.Item](ctx, r.db, "items", id, ErrItemNotFound)
	if err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List возвращает товары по фильтру, новые первыми.
func (r *ItemRepository) List(ctx context.Context, filter ItemListFilter) ([]models.Item, error) {
	query := `SELECT * FROM items WHERE 1=1`
	args := []interface{}{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		query += fmt.Sprintf(` AND price >= $%d`, len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		query += fmt.Sprintf(` AND price <= $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	var items []models.Item
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("item repository: list %w", err)
	}
	if err := r.loadImagesForAll(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByUser возвращает товары пользователя, новые первыми.
func (r *ItemRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Item, error) {
	var items []models.Item
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM items WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("item repository: list by user %w", err)
	}
	if err := r.loadImagesForAll(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update перезаписывает изменяемые поля товара.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET title = $2, description = $3, price = $4, status = $5,
		    location = $6, category_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		item.ID, item.Title, item.Description, item.Price, item.Status,
		item.Location, item.CategoryID,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		return fmt.Errorf("item repository: update %w", err)
	}
	return nil
}

// Delete удаляет товар; фотографии удаляются каскадно.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("item repository: delete %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) loadImages(ctx context.Context, item *models.Item) error {
	err := r.db.SelectContext(ctx, &item.Images, `
		SELECT * FROM item_images WHERE item_id = $1 ORDER BY id
	`, item.ID)
	if err != nil {
		return fmt.Errorf("item repository: load images %w", err)
	}
	return nil
}

func (r *ItemRepository) loadImagesForAll(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}

	query, args, err := sqlx.In(`SELECT * FROM item_images WHERE item_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("item repository: load images %w", err)
	}

	var images []models.ItemImage
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("item repository: load images %w", err)
	}

	byItem := make(map[uuid.UUID][]models.ItemImage, len(items))
	for _, img := range images {
		byItem[img.ItemID] = append(byItem[img.ItemID], img)
	}
	for i := range items {
		items[i].Images = byItem[items[i].ID]
	}
	return nil
}
