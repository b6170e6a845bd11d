package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest — запрос регистрации.
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest — запрос входа.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest — запрос обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest — запрос изменения профиля. Nil-поля не меняются.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// CreateCategoryRequest — запрос создания категории.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description,omitempty"`
}

// CreateItemRequest — запрос публикации товара.
type CreateItemRequest struct {
	Title       string     `json:"title" binding:"required,max=100"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Location    *string    `json:"location,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	ImageURLs   []string   `json:"image_urls,omitempty"`
}

// UpdateItemRequest — запрос изменения товара. Nil-поля не меняются.
type UpdateItemRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Location    *string    `json:"location,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

// CreateTransactionRequest — запрос создания сделки.
type CreateTransactionRequest struct {
	ItemID          uuid.UUID  `json:"item_id" binding:"required"`
	MeetingTime     *time.Time `json:"meeting_time,omitempty"`
	MeetingLocation *string    `json:"meeting_location,omitempty"`
}

// UpdateTransactionRequest — запрос изменения сделки. Статус опционален:
// без него обновляются только детали встречи.
type UpdateTransactionRequest struct {
	Status          *string    `json:"status,omitempty"`
	MeetingTime     *time.Time `json:"meeting_time,omitempty"`
	MeetingLocation *string    `json:"meeting_location,omitempty"`
}

// CreateReviewRequest — запрос создания отзыва.
type CreateReviewRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" binding:"required"`
	RevieweeID    uuid.UUID `json:"reviewee_id" binding:"required"`
	Rating        int       `json:"rating" binding:"required,min=1,max=5"`
	Comment       *string   `json:"comment,omitempty"`
}

// SendMessageRequest — запрос отправки сообщения.
type SendMessageRequest struct {
	ItemID     uuid.UUID `json:"item_id" binding:"required"`
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Message    string    `json:"message" binding:"required,max=5000"`
}

// AddFavoriteRequest — запрос добавления товара в избранное.
type AddFavoriteRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
}
