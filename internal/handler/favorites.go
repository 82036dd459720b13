package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/slinet/ehfetch/internal/database"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	store  *database.FavoriteStore
	logger *zap.Logger
}

func NewFavoriteHandler(store *database.FavoriteStore, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{store: store, logger: logger}
}

// List handles GET /api/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list favorites", zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "database error", nil))
		return
	}
	total := int64(len(list))
	c.JSON(200, utils.GetResponse(list, 200, "success", &total))
}

type favoriteRequest struct {
	Gid   int64  `json:"gid" binding:"required"`
	Token string `json:"token" binding:"required"`
	Title string `json:"title"`
}

// Put handles PUT /api/favorites
func (h *FavoriteHandler) Put(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, utils.GetResponse(nil, 400, "gid and token are required", nil))
		return
	}
	fav := &database.LocalFavorite{Gid: req.Gid, Token: req.Token, Title: req.Title}
	if err := h.store.Put(c.Request.Context(), fav); err != nil {
		h.logger.Error("failed to save favorite", zap.Int64("gid", req.Gid), zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "database error", nil))
		return
	}
	c.JSON(200, utils.GetResponse(nil, 200, "saved", nil))
}

// Remove handles DELETE /api/favorites/:gid
func (h *FavoriteHandler) Remove(c *gin.Context) {
	gid, err := strconv.ParseInt(c.Param("gid"), 10, 64)
	if err != nil || gid <= 0 {
		c.JSON(400, utils.GetResponse(nil, 400, "invalid gid", nil))
		return
	}
	if err := h.store.Remove(c.Request.Context(), gid); err != nil {
		h.logger.Error("failed to remove favorite", zap.Int64("gid", gid), zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "database error", nil))
		return
	}
	c.JSON(200, utils.GetResponse(nil, 200, "removed", nil))
}
