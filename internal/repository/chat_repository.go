package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusmarket/market-backend/internal/models"
)

type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create сохраняет сообщение.
func (r *ChatRepository) Create(ctx context.Context, msg *models.Chat) error {
	query := `
		INSERT INTO chats (item_id, sender_id, receiver_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		msg.ItemID, msg.SenderID, msg.ReceiverID, msg.Message,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("chat repository: create %w", err)
	}
	return nil
}

// ListByItem возвращает переписку двух пользователей по товару
// в хронологическом порядке.
func (r *ChatRepository) ListByItem(ctx context.Context, itemID, userID, otherID uuid.UUID, limit, offset int) ([]models.Chat, error) {
	var messages []models.Chat
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM chats
		WHERE item_id = $1
		  AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		ORDER BY created_at ASC
		LIMIT $4 OFFSET $5
	`, itemID, userID, otherID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("chat repository: list by item %w", err)
	}
	return messages, nil
}

// ListConversations возвращает последние сообщения всех переписок
// пользователя, по одному на пару (товар, собеседник).
func (r *ChatRepository) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Chat, error) {
	var messages []models.Chat
	err := r.db.SelectContext(ctx, &messages, `
		SELECT DISTINCT ON (item_id, LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id)) *
		FROM chats
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY item_id, LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id), created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("chat repository: list conversations %w", err)
	}
	return messages, nil
}
