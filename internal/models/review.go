package models

import (
	"time"

	"github.com/google/uuid"
)

// Review описывает отзыв по завершённой сделке.
// На одну сделку допускается ровно один отзыв; после создания он не меняется.
type Review struct {
	ID            uuid.UUID `db:"id" json:"id"`
	TransactionID uuid.UUID `db:"transaction_id" json:"transaction_id"`
	ReviewerID    uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	RevieweeID    uuid.UUID `db:"reviewee_id" json:"reviewee_id"`
	Rating        int       `db:"rating" json:"rating"`
	Comment       *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
