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
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrTransactionStateChanged = errors.New("transaction status already changed")
	ErrItemNotAvailable        = errors.New("item is not available for trading")
	ErrActiveTransactionExists = errors.New("item already has an active transaction")
)

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create создаёт сделку и переводит товар в статус trading одной транзакцией.
// Строка товара блокируется через FOR UPDATE, поэтому два конкурирующих
// покупателя сериализуются; частичный уникальный индекс
// uniq_transactions_active_item закрывает гонку на уровне хранения.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var item models.Item
		err := tx.GetContext(ctx, &item, `SELECT * FROM items WHERE id = $1 FOR UPDATE`, txn.ItemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrItemNotFound
			}
			return fmt.Errorf("transaction repository: lock item %w", err)
		}

		if item.Status != models.ItemStatusAvailable {
			return ErrItemNotAvailable
		}

		txn.SellerID = item.UserID

		query := `
			INSERT INTO transactions (item_id, buyer_id, seller_id, meeting_time, meeting_location)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, status, created_at, updated_at
		`
		err = tx.QueryRowxContext(ctx, query,
			txn.ItemID, txn.BuyerID, txn.SellerID, txn.MeetingTime, txn.MeetingLocation,
		).Scan(&txn.ID, &txn.Status, &txn.CreatedAt, &txn.UpdatedAt)
		if err != nil {
			if common.IsUniqueViolation(err, "uniq_transactions_active_item") {
				return ErrActiveTransactionExists
			}
			return fmt.Errorf("transaction repository: create %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE items SET status = $2, updated_at = NOW() WHERE id = $1
		`, txn.ItemID, models.ItemStatusTrading)
		if err != nil {
			return fmt.Errorf("transaction repository: flip item status %w", err)
		}

		return nil
	})
	return err
}

// GetByID возвращает сделку по ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return common.GetByID[models.Transaction](ctx, r.db, "transactions", id, ErrTransactionNotFound)
}

// GetActiveByItem возвращает активную (pending/confirmed) сделку по товару
// или nil, если её нет.
func (r *TransactionRepository) GetActiveByItem(ctx context.Context, itemID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, `
		SELECT * FROM transactions
		WHERE item_id = $1 AND status IN ('pending', 'confirmed')
	`, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("transaction repository: get active by item %w", err)
	}
	return &txn, nil
}

// ListByUser возвращает сделки пользователя в роли покупателя или продавца,
// новые первыми.
func (r *TransactionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	isBuyer bool,
	status *models.TransactionStatus,
	limit, offset int,
) ([]models.Transaction, error) {
	roleColumn := "seller_id"
	if isBuyer {
		roleColumn = "buyer_id"
	}

	query := fmt.Sprintf(`SELECT * FROM transactions WHERE %s = $1`, roleColumn)
	args := []interface{}{userID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	var txns []models.Transaction
	if err := r.db.SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, fmt.Errorf("transaction repository: list by user %w", err)
	}
	return txns, nil
}

// Update перезаписывает статус и детали встречи; если itemStatus задан,
// товар переводится в него той же транзакцией, чтобы другой читатель
// не увидел сделку без соответствующего статуса товара. Строка сделки
// блокируется через FOR UPDATE и сверяется с from: конкурирующее
// обновление, успевшее сменить статус первым, не перезаписывается.
func (r *TransactionRepository) Update(ctx context.Context, txn *models.Transaction, from models.TransactionStatus, itemStatus *models.ItemStatus) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var current models.Transaction
		err := tx.GetContext(ctx, &current, `SELECT * FROM transactions WHERE id = $1 FOR UPDATE`, txn.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("transaction repository: lock %w", err)
		}

		if current.Status != from {
			return ErrTransactionStateChanged
		}

		err = tx.QueryRowxContext(ctx, `
			UPDATE transactions
			SET status = $2, meeting_time = $3, meeting_location = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`, txn.ID, txn.Status, txn.MeetingTime, txn.MeetingLocation).Scan(&txn.UpdatedAt)
		if err != nil {
			return fmt.Errorf("transaction repository: update %w", err)
		}

		if itemStatus == nil {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE items SET status = $2, updated_at = NOW() WHERE id = $1
		`, txn.ItemID, *itemStatus)
		if err != nil {
			return fmt.Errorf("transaction repository: flip item status %w", err)
		}
		return nil
	})
}
