package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusmarket/market-backend/internal/dto"
	"github.com/campusmarket/market-backend/internal/http/handlers/common"
	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/service"
)

type TransactionHandler struct {
	txns *service.TransactionService
}

func NewTransactionHandler(txns *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{txns: txns}
}

// CreateTransaction POST /transactions
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "item_id обязателен")
		return
	}

	txn, err := h.txns.CreateTransaction(c.Request.Context(), userID, service.CreateTransactionInput{
		ItemID:          req.ItemID,
		MeetingTime:     req.MeetingTime,
		MeetingLocation: req.MeetingLocation,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// GetTransaction GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	txnID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	txn, err := h.txns.GetTransaction(c.Request.Context(), userID, txnID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

// ListTransactions GET /transactions?role=buyer|seller&status=...
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	role := c.DefaultQuery("role", "buyer")
	if role != "buyer" && role != "seller" {
		common.RespondBadRequest(c, "role должен быть buyer или seller")
		return
	}

	var status *models.TransactionStatus
	if raw := c.Query("status"); raw != "" {
		s := models.TransactionStatus(raw)
		status = &s
	}

	limit, offset := common.GetPagination(c)
	txns, err := h.txns.ListTransactions(c.Request.Context(), userID, role == "buyer", status, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// UpdateTransaction PUT /transactions/:id
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	txnID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректные данные сделки")
		return
	}

	in := service.UpdateTransactionInput{
		MeetingTime:     req.MeetingTime,
		MeetingLocation: req.MeetingLocation,
	}
	if req.Status != nil {
		status := models.TransactionStatus(*req.Status)
		in.Status = &status
	}

	txn, err := h.txns.UpdateTransaction(c.Request.Context(), userID, txnID, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}
