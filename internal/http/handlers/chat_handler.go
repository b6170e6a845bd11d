package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusmarket/market-backend/internal/dto"
	"github.com/campusmarket/market-backend/internal/http/handlers/common"
	"github.com/campusmarket/market-backend/internal/service"
)

type ChatHandler struct {
	chats *service.ChatService
}

func NewChatHandler(chats *service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// SendMessage POST /chats
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "item_id, receiver_id и message обязательны")
		return
	}

	msg, err := h.chats.SendMessage(c.Request.Context(), userID, service.SendMessageInput{
		ItemID:     req.ItemID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// GetConversation GET /chats/:item_id?with=<user_id>
func (h *ChatHandler) GetConversation(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	itemID, err := common.ParseUUIDParam(c, "item_id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	otherID, err := uuid.Parse(c.Query("with"))
	if err != nil {
		common.RespondBadRequest(c, "параметр with должен быть валидным UUID")
		return
	}

	limit, offset := common.GetPagination(c)
	messages, err := h.chats.GetConversation(c.Request.Context(), userID, itemID, otherID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// ListConversations GET /chats
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	conversations, err := h.chats.ListConversations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}
