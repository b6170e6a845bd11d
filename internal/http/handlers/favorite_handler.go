package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusmarket/market-backend/internal/dto"
	"github.com/campusmarket/market-backend/internal/http/handlers/common"
	"github.com/campusmarket/market-backend/internal/service"
)

type FavoriteHandler struct {
	favorites *service.FavoriteService
}

func NewFavoriteHandler(favorites *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// AddFavorite POST /favorites
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "item_id обязателен")
		return
	}

	fav, err := h.favorites.AddFavorite(c.Request.Context(), userID, req.ItemID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fav)
}

// ListFavorites GET /favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	favorites, err := h.favorites.ListFavorites(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// CheckFavorite GET /favorites/:item_id
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
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

	exists, err := h.favorites.IsFavorite(c.Request.Context(), userID, itemID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_favorite": exists})
}

// RemoveFavorite DELETE /favorites/:item_id
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
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

	if err := h.favorites.RemoveFavorite(c.Request.Context(), userID, itemID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "товар убран из избранного", nil)
}
