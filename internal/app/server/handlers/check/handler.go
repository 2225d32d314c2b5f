package check

import (
	"github.com/Shirovn55/apinganmiu/internal/app/domains/services/svcheck"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

// CheckHandler Cookie 校验 HTTP 处理器
type CheckHandler struct {
	checkService *svcheck.CheckService
	logger       logger.Logger
}

// NewCheckHandler 创建校验处理器实例
func NewCheckHandler(checkService *svcheck.CheckService, log logger.Logger) *CheckHandler {
	return &CheckHandler{
		checkService: checkService,
		logger:       log,
	}
}
