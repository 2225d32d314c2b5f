package check

import (
	"github.com/gin-gonic/gin"

	"github.com/Shirovn55/apinganmiu/internal/app/domains/apimodel/request"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/ginx"
)

// CheckV2 校验 Cookie 接口（带激活校验 + 缓存）
// POST /api/check-cookie-v2
func (h *CheckHandler) CheckV2(c *gin.Context) {
	var req request.CheckCookieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	ctx := c.Request.Context()
	result, cached, ferr := h.checkService.CheckCookie(ctx, req.Cookie, req.SheetID)
	if ferr != nil {
		h.logger.Warnf(ctx, "check cookie failed: code=%d retryable=%v msg=%s", ferr.Code, ferr.Retryable, ferr.Message)
		ginx.FailUpstream(c, ferr)
		return
	}

	ginx.SuccessCached(c, result, result.Msg, cached)
}

// CheckLegacy 旧版校验接口：不做激活校验，保留给存量客户端
// POST /api/check-cookie
func (h *CheckHandler) CheckLegacy(c *gin.Context) {
	var req request.CheckCookieLegacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	ctx := c.Request.Context()
	result, cached, ferr := h.checkService.CheckCookieLegacy(ctx, req.Cookie)
	if ferr != nil {
		h.logger.Warnf(ctx, "legacy check cookie failed: code=%d msg=%s", ferr.Code, ferr.Message)
		ginx.FailUpstream(c, ferr)
		return
	}

	ginx.SuccessCached(c, result, result.Msg, cached)
}
