package handler

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/slinet/ehfetch/internal/client"
	"github.com/slinet/ehfetch/internal/client/parser"
	"github.com/slinet/ehfetch/pkg/utils"
	"go.uber.org/zap"
)

var (
	gidPattern   = regexp.MustCompile(`^\d+$`)
	tokenPattern = regexp.MustCompile(`^[0-9a-f]{10}$`)
)

type GalleryHandler struct {
	client *client.Client
	env    parser.Env
	retry  client.RetryConfig
	logger *zap.Logger
}

func NewGalleryHandler(c *client.Client, env parser.Env, retry client.RetryConfig, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{client: c, env: env, retry: retry, logger: logger}
}

// GetGallery handles GET /api/gallery/:gid/:token. It fetches the live
// detail page and returns the parsed record.
func (h *GalleryHandler) GetGallery(c *gin.Context) {
	gid := c.Param("gid")
	token := c.Param("token")

	if !gidPattern.MatchString(gid) || !tokenPattern.MatchString(token) {
		c.JSON(400, utils.GetResponse(nil, 400, "gid or token is invalid", nil))
		return
	}
	gidNum, err := strconv.ParseInt(gid, 10, 64)
	if err != nil || gidNum <= 0 {
		c.JSON(400, utils.GetResponse(nil, 400, "gid or token is invalid", nil))
		return
	}

	ctx := c.Request.Context()

	body, err := client.Retry(h.retry, func() (string, error) {
		return h.client.GetDetailPage(ctx, gidNum, token)
	})
	if err != nil {
		h.logger.Error("failed to fetch detail page", zap.Int64("gid", gidNum), zap.Error(err))
		c.JSON(502, utils.GetResponse(nil, 502, "failed to fetch gallery page", nil))
		return
	}

	detail, err := parser.ParseGalleryDetail(ctx, body, h.env)
	if err != nil {
		h.respondParseError(c, gidNum, err)
		return
	}

	h.logger.Debug("gallery parsed",
		zap.Int64("gid", detail.Gid),
		zap.String("category", detail.Category.String()),
		zap.Int("tag_groups", len(detail.TagGroups)),
	)
	c.JSON(200, utils.GetResponse(detail, 200, "success", nil))
}

func (h *GalleryHandler) respondParseError(c *gin.Context, gid int64, err error) {
	var serverErr *parser.ServerError
	switch {
	case errors.Is(err, parser.ErrOffensive):
		c.JSON(403, utils.GetResponse(nil, 403, "gallery is behind the content warning", nil))
	case errors.Is(err, parser.ErrGone):
		c.JSON(404, utils.GetResponse(nil, 404, "gallery has been removed", nil))
	case errors.As(err, &serverErr):
		c.JSON(502, utils.GetResponse(nil, 502, serverErr.Message, nil))
	default:
		h.logger.Error("failed to parse detail page", zap.Int64("gid", gid), zap.Error(err))
		c.JSON(500, utils.GetResponse(nil, 500, "failed to parse gallery page", nil))
	}
}
