package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat описывает сообщение в переписке по товару.
type Chat struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ItemID     uuid.UUID `db:"item_id" json:"item_id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	Message    string    `db:"message" json:"message"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
