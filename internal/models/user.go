package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает пользователя площадки.
// CreditScore не опускается ниже нуля и меняется только отзывами.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Avatar       *string   `db:"avatar" json:"avatar,omitempty"`
	CreditScore  int       `db:"credit_score" json:"credit_score"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PublicProfile возвращает представление пользователя для чужих глаз.
func (u *User) PublicProfile() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Avatar:      u.Avatar,
		CreditScore: u.CreditScore,
		CreatedAt:   u.CreatedAt,
	}
}

// PublicUser — публичный профиль без контактных данных.
type PublicUser struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Avatar      *string   `json:"avatar,omitempty"`
	CreditScore int       `json:"credit_score"`
	CreatedAt   time.Time `json:"created_at"`
}
