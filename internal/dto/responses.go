package dto

import (
	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/service"
)

// ErrorResponse — стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse — стандартный ответ с сообщением и данными.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse — ответ регистрации и входа.
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// PublicProfileResponse — публичный профиль с агрегатом отзывов.
type PublicProfileResponse struct {
	*models.PublicUser
	Rating *service.UserRating `json:"rating"`
}
