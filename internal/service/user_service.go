package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/pkg/apperror"
	"github.com/campusmarket/market-backend/internal/repository"
	"github.com/campusmarket/market-backend/internal/validation"
)

// UserRepositoryForProfile описывает зависимости UserService от слоя хранилища.
type UserRepositoryForProfile interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// ReviewRepoForRating отдаёт агрегаты отзывов для профиля.
type ReviewRepoForRating interface {
	GetAverageRating(ctx context.Context, userID uuid.UUID) (float64, int, error)
}

// UserService отвечает за профили пользователей.
type UserService struct {
	repo    UserRepositoryForProfile
	reviews ReviewRepoForRating
}

// UpdateProfileInput содержит изменяемые поля профиля.
// Nil означает «не менять».
type UpdateProfileInput struct {
	Username *string
	Email    *string
	Phone    *string
	Avatar   *string
}

// UserRating — агрегат отзывов о пользователе.
type UserRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// NewUserService создаёт сервис профилей.
func NewUserService(repo UserRepositoryForProfile, reviews ReviewRepoForRating) *UserService {
	return &UserService{repo: repo, reviews: reviews}
}

// GetProfile возвращает собственный профиль пользователя.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetPublicProfile возвращает публичный профиль с агрегатом отзывов.
func (s *UserService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*models.PublicUser, *UserRating, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, apperror.ErrUserNotFound
		}
		return nil, nil, err
	}

	avg, count, err := s.reviews.GetAverageRating(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return user.PublicProfile(), &UserRating{Average: avg, Count: count}, nil
}

// UpdateProfile меняет только переданные поля.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	if in.Username != nil {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		user.Email = email
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Avatar != nil {
		user.Avatar = in.Avatar
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, apperror.New(apperror.ErrCodeConflict, "имя пользователя уже занято")
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, apperror.New(apperror.ErrCodeConflict, "email уже зарегистрирован")
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
