package models

import (
	"time"

	"github.com/google/uuid"
)

// Category описывает раздел каталога.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
}

// Item описывает выставленный на обмен товар.
// Price может быть nil — отдаётся бесплатно.
type Item struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Price       *float64   `db:"price" json:"price,omitempty"`
	Status      ItemStatus `db:"status" json:"status"`
	Location    *string    `db:"location" json:"location,omitempty"`
	CategoryID  *uuid.UUID `db:"category_id" json:"category_id,omitempty"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	Images []ItemImage `db:"-" json:"images,omitempty"`
}

// ItemImage хранит ссылку на фотографию товара.
// ID последовательный, порядок по нему совпадает с порядком загрузки.
type ItemImage struct {
	ID       int64     `db:"id" json:"id"`
	ItemID   uuid.UUID `db:"item_id" json:"item_id"`
	ImageURL string    `db:"image_url" json:"image_url"`
}
