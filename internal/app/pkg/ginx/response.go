package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Shirovn55/apinganmiu/internal/app/pkg/errorx"
)

// Response 统一响应结构（与旧版接口保持兼容：error=0 成功，error=1 失败）
type Response struct {
	Error  int           `json:"error"`
	Msg    string        `json:"msg,omitempty"`
	Data   interface{}   `json:"data,omitempty"`
	Cached *bool         `json:"cached,omitempty"`
	Detail []ErrorDetail `json:"detail,omitempty"`
}

// ErrorDetail 参数校验错误详情
type ErrorDetail struct {
	Path string `json:"path"`
	Info string `json:"info"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Error: 0,
		Data:  data,
	})
}

// SuccessCached 成功响应，标记结果是否命中缓存
func SuccessCached(c *gin.Context, data interface{}, msg string, cached bool) {
	c.JSON(http.StatusOK, Response{
		Error:  0,
		Msg:    msg,
		Data:   data,
		Cached: &cached,
	})
}

// Fail 错误响应
func Fail(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, Response{
		Error: 1,
		Msg:   msg,
	})
}

// FailUpstream 上游探测错误响应（按错误的建议状态码返回，调用方据此区分重试/重新登录）
func FailUpstream(c *gin.Context, err *errorx.Error) {
	c.JSON(err.Code, Response{
		Error: 1,
		Msg:   err.Message,
	})
}

// BadRequest 400 错误
func BadRequest(c *gin.Context, msg string) {
	Fail(c, http.StatusBadRequest, msg)
}

// BadRequestWithValidation 400 错误（带验证详情）
func BadRequestWithValidation(c *gin.Context, err error) {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		details := make([]ErrorDetail, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, ErrorDetail{
				Path: fieldErr.Field(),
				Info: getValidationErrorMessage(fieldErr),
			})
		}
		c.JSON(http.StatusBadRequest, Response{
			Error:  1,
			Msg:    "Validation failed",
			Detail: details,
		})
		return
	}

	BadRequest(c, err.Error())
}

// Forbidden 403 错误
func Forbidden(c *gin.Context, msg string) {
	Fail(c, http.StatusForbidden, msg)
}

// InternalError 500 错误
func InternalError(c *gin.Context, msg string) {
	Fail(c, http.StatusInternalServerError, msg)
}

// getValidationErrorMessage 根据验证错误类型返回友好的错误消息
func getValidationErrorMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param()
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param()
	default:
		return fieldErr.Field() + " is invalid"
	}
}
