package track

import (
	"github.com/gin-gonic/gin"

	"github.com/Shirovn55/apinganmiu/internal/app/infra/spx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/ginx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

// TrackHandler 运单轨迹 HTTP 处理器
type TrackHandler struct {
	spxClient *spx.Client
	logger    logger.Logger
}

// NewTrackHandler 创建轨迹处理器实例
func NewTrackHandler(spxClient *spx.Client, log logger.Logger) *TrackHandler {
	return &TrackHandler{
		spxClient: spxClient,
		logger:    log,
	}
}

// Track 查询 SPX 运单轨迹
// GET /api/spx-track?mvd=SPXVN0xxxx
func (h *TrackHandler) Track(c *gin.Context) {
	trackingNo := c.Query("mvd")
	if trackingNo == "" {
		ginx.BadRequest(c, "thiếu mã vận đơn (mvd)")
		return
	}

	ctx := c.Request.Context()
	tree, ferr := h.spxClient.Track(ctx, trackingNo)
	if ferr != nil {
		h.logger.Warnf(ctx, "spx track failed: mvd=%s msg=%s", trackingNo, ferr.Message)
		ginx.FailUpstream(c, ferr)
		return
	}

	// 轨迹原样透传，前端自行取用
	ginx.Success(c, tree)
}
