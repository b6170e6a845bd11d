package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite описывает товар, добавленный пользователем в избранное.
type Favorite struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ItemID    uuid.UUID `db:"item_id" json:"item_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
