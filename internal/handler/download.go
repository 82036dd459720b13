package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/slinet/ehfetch/internal/database"
	"github.com/slinet/ehfetch/internal/download"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
)

type DownloadHandler struct {
	mgr     *download.Manager
	service *download.Service
	store   *database.DownloadStore
	logger  *zap.Logger
}

func NewDownloadHandler(mgr *download.Manager, service *download.Service, store *database.DownloadStore, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{mgr: mgr, service: service, store: store, logger: logger}
}

type startRequest struct {
	Gid   int64  `json:"gid" binding:"required"`
	Token string `json:"token" binding:"required"`
	Title string `json:"title"`
	Label string `json:"label"`
}

// Start handles POST /api/download
func (h *DownloadHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, utils.GetResponse(nil, 400, "gid and token are required", nil))
		return
	}
	if err := h.mgr.Start(c.Request.Context(), req.Gid, req.Token, req.Title, req.Label); err != nil {
		h.logger.Error("failed to start download", zap.Int64("gid", req.Gid), zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "failed to start download", nil))
		return
	}
	c.JSON(200, utils.GetResponse(nil, 200, "queued", nil))
}

// StartAll handles POST /api/download/start_all
func (h *DownloadHandler) StartAll(c *gin.Context) {
	if err := h.mgr.StartAll(c.Request.Context()); err != nil {
		h.logger.Error("failed to start all downloads", zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "failed to start downloads", nil))
		return
	}
	c.JSON(200, utils.GetResponse(nil, 200, "queued", nil))
}

type gidRequest struct {
	Gid  int64   `json:"gid"`
	Gids []int64 `json:"gids"`
}

func (r *gidRequest) all() []int64 {
	if r.Gid != 0 {
		return append([]int64{r.Gid}, r.Gids...)
	}
	return r.Gids
}

// Stop handles POST /api/download/stop
func (h *DownloadHandler) Stop(c *gin.Context) {
	var req gidRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.all()) == 0 {
		c.JSON(400, utils.GetResponse(nil, 400, "gid is required", nil))
		return
	}
	h.mgr.StopRange(c.Request.Context(), req.all())
	c.JSON(200, utils.GetResponse(nil, 200, "stopped", nil))
}

// StopAll handles POST /api/download/stop_all
func (h *DownloadHandler) StopAll(c *gin.Context) {
	h.mgr.StopAll(c.Request.Context())
	c.JSON(200, utils.GetResponse(nil, 200, "stopped", nil))
}

// Delete handles POST /api/download/delete
func (h *DownloadHandler) Delete(c *gin.Context) {
	var req gidRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.all()) == 0 {
		c.JSON(400, utils.GetResponse(nil, 400, "gid is required", nil))
		return
	}
	if err := h.mgr.DeleteRange(c.Request.Context(), req.all()); err != nil {
		h.logger.Error("failed to delete downloads", zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "failed to delete downloads", nil))
		return
	}
	c.JSON(200, utils.GetResponse(nil, 200, "deleted", nil))
}

// Clear handles POST /api/download/clear: reset the session summary
func (h *DownloadHandler) Clear(c *gin.Context) {
	h.service.Clear()
	c.JSON(200, utils.GetResponse(nil, 200, "cleared", nil))
}

// List handles GET /api/downloads
func (h *DownloadHandler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list downloads", zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "database error", nil))
		return
	}
	total := int64(len(list))
	c.JSON(200, utils.GetResponse(list, 200, "success", &total))
}

// Status handles GET /api/download/status: the live queue plus session
// counters
func (h *DownloadHandler) Status(c *gin.Context) {
	current, queued := h.mgr.Snapshot()
	finished, failed := h.service.Stats().Counts()
	c.JSON(200, utils.GetResponse(gin.H{
		"current":    current,
		"queued":     queued,
		"idle":       h.mgr.Idle(),
		"downloaded": h.service.Stats().Downloaded(),
		"finished":   finished,
		"failed":     failed,
	}, 200, "success", nil))
}
