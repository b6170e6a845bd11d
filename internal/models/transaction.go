package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction описывает сделку между покупателем и продавцом по одному товару.
// Пара (BuyerID, SellerID) фиксируется при создании и не меняется;
// продавец выводится из владельца товара.
type Transaction struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	ItemID          uuid.UUID         `db:"item_id" json:"item_id"`
	BuyerID         uuid.UUID         `db:"buyer_id" json:"buyer_id"`
	SellerID        uuid.UUID         `db:"seller_id" json:"seller_id"`
	Status          TransactionStatus `db:"status" json:"status"`
	MeetingTime     *time.Time        `db:"meeting_time" json:"meeting_time,omitempty"`
	MeetingLocation *string           `db:"meeting_location" json:"meeting_location,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// IsParticipant сообщает, участвует ли пользователь в сделке.
func (t *Transaction) IsParticipant(userID uuid.UUID) bool {
	return t.BuyerID == userID || t.SellerID == userID
}

// OtherParticipant возвращает вторую сторону сделки.
func (t *Transaction) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if t.BuyerID == userID {
		return t.SellerID
	}
	return t.BuyerID
}
