package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/slinet/ehfetch/internal/database"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
)

type FilterHandler struct {
	store  *database.FilterStore
	logger *zap.Logger
}

func NewFilterHandler(store *database.FilterStore, logger *zap.Logger) *FilterHandler {
	return &FilterHandler{store: store, logger: logger}
}

// List handles GET /api/filters
func (h *FilterHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list filter rules", zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "database error", nil))
		return
	}
	total := int64(len(list))
	c.JSON(200, utils.GetResponse(list, 200, "success", &total))
}

type filterRequest struct {
	Kind    string `json:"kind" binding:"required"`
	Pattern string `json:"pattern" binding:"required"`
	IsRegex bool   `json:"is_regex"`
}

// Add handles POST /api/filters
func (h *FilterHandler) Add(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, utils.GetResponse(nil, 400, "kind and pattern are required", nil))
		return
	}
	rule := &database.FilterRule{Kind: req.Kind, Pattern: req.Pattern, IsRegex: req.IsRegex}
	if err := h.store.Add(c.Request.Context(), rule); err != nil {
		h.logger.Warn("failed to add filter rule", zap.String("pattern", req.Pattern), zap.Error(err))
		c.JSON(400, utils.GetResponse(nil, 400, err.Error(), nil))
		return
	}
	c.JSON(200, utils.GetResponse(rule, 200, "added", nil))
}

// Remove handles DELETE /api/filters/:id
func (h *FilterHandler) Remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(400, utils.GetResponse(nil, 400, "invalid id", nil))
		return
	}
	if err := h.store.Remove(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to remove filter rule", zap.Int("id", id), zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "database error", nil))
		return
	}
	c.JSON(200, utils.GetResponse(nil, 200, "removed", nil))
}
