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

// ChatRepo описывает зависимости ChatService от слоя хранилища.
type ChatRepo interface {
	Create(ctx context.Context, msg *models.Chat) error
	ListByItem(ctx context.Context, itemID, userID, otherID uuid.UUID, limit, offset int) ([]models.Chat, error)
	ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Chat, error)
}

// ItemRepoForChat отдаёт товар для проверки получателя.
type ItemRepoForChat interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// UserRepoForChat проверяет существование получателя.
type UserRepoForChat interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ChatService отвечает за переписку по товарам.
type ChatService struct {
	repo  ChatRepo
	items ItemRepoForChat
	users UserRepoForChat
}

// SendMessageInput содержит данные сообщения.
type SendMessageInput struct {
	ItemID     uuid.UUID
	ReceiverID uuid.UUID
	Message    string
}

// NewChatService создаёт сервис переписки.
func NewChatService(repo ChatRepo, items ItemRepoForChat, users UserRepoForChat) *ChatService {
	return &ChatService{repo: repo, items: items, users: users}
}

// SendMessage отправляет сообщение по товару. Писать самому себе нельзя;
// хотя бы одна из сторон должна быть владельцем товара.
func (s *ChatService) SendMessage(ctx context.Context, senderID uuid.UUID, in SendMessageInput) (*models.Chat, error) {
	message := strings.TrimSpace(in.Message)
	if err := validation.ValidateNonEmpty("сообщение", message); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("сообщение", message, 1, validation.MaxMessageLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if senderID == in.ReceiverID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя отправить сообщение самому себе")
	}

	item, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.UserID != senderID && item.UserID != in.ReceiverID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "переписка по товару ведётся с его владельцем")
	}

	if _, err := s.users.GetByID(ctx, in.ReceiverID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	msg := &models.Chat{
		ItemID:     in.ItemID,
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		Message:    message,
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetConversation возвращает переписку пользователя с собеседником по товару.
func (s *ChatService) GetConversation(ctx context.Context, userID, itemID, otherID uuid.UUID, limit, offset int) ([]models.Chat, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByItem(ctx, itemID, userID, otherID, limit, offset)
}

// ListConversations возвращает последние сообщения всех переписок пользователя.
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Chat, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListConversations(ctx, userID, limit, offset)
}
