package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusmarket/market-backend/internal/dto"
	"github.com/campusmarket/market-backend/internal/http/handlers/common"
	"github.com/campusmarket/market-backend/internal/models"
	"github.com/campusmarket/market-backend/internal/repository"
	"github.com/campusmarket/market-backend/internal/service"
)

type ItemHandler struct {
	items *service.ItemService
}

func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// CreateItem POST /items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректные данные товара")
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), userID, service.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetItem GET /items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.GetItem(c.Request.Context(), id)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListItems GET /items
func (h *ItemHandler) ListItems(c *gin.Context) {
	filter := repository.ItemListFilter{
		Search: c.Query("search"),
	}
	filter.Limit, filter.Offset = common.GetPagination(c)

	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "неверный category_id")
			return
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("min_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondBadRequest(c, "неверный min_price")
			return
		}
		filter.MinPrice = &price
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondBadRequest(c, "неверный max_price")
			return
		}
		filter.MaxPrice = &price
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ItemStatus(raw)
		if _, ok := models.ValidItemStatuses[status]; !ok {
			common.RespondBadRequest(c, "неверный статус товара")
			return
		}
		filter.Status = &status
	}

	items, err := h.items.ListItems(c.Request.Context(), filter)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdateItem PUT /items/:id
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректные данные товара")
		return
	}

	in := service.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
	}
	if req.Status != nil {
		status := models.ItemStatus(*req.Status)
		in.Status = &status
	}

	item, err := h.items.UpdateItem(c.Request.Context(), userID, itemID, in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem DELETE /items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.items.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "товар удалён", nil)
}
