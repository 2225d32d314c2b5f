package admin

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/Shirovn55/apinganmiu/internal/app/domains/apimodel/request"
	"github.com/Shirovn55/apinganmiu/internal/app/infra/sheets"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/errorx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/ginx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

// AdminHandler 管理接口 HTTP 处理器
type AdminHandler struct {
	sheetsClient *sheets.Client
	registryID   string
	adminKey     string
	logger       logger.Logger
}

// NewAdminHandler 创建管理处理器实例。
// registryID 是登记表（激活名单所在的 Google Sheet）的 ID。
func NewAdminHandler(sheetsClient *sheets.Client, registryID, adminKey string, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		sheetsClient: sheetsClient,
		registryID:   registryID,
		adminKey:     adminKey,
		logger:       log,
	}
}

// AddSheet 向激活名单追加一行
// POST /api/admin/add-sheet
func (h *AdminHandler) AddSheet(c *gin.Context) {
	var req request.AddSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	if h.adminKey == "" || subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.adminKey)) != 1 {
		ginx.Forbidden(c, "admin key không hợp lệ")
		return
	}

	ctx := c.Request.Context()
	if err := h.sheetsClient.AppendActivation(ctx, h.registryID, req.SheetID, req.ExpireAt, req.Note); err != nil {
		ferr := errorx.Wrap(err)
		h.logger.Errorf(ctx, "append activation failed: sheet_id=%s err=%s", req.SheetID, ferr.DevDetails)
		ginx.FailUpstream(c, ferr)
		return
	}

	ginx.Success(c, gin.H{"sheet_id": req.SheetID})
}
