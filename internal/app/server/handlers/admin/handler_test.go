package admin

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Shirovn55/apinganmiu/internal/app/infra/sheets"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

func newTestRouter(adminKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	// 不配置凭证，写入会失败
	client := sheets.NewClient(nil, "0819.555.000", logger.NewNop())
	handler := NewAdminHandler(client, "registry-sheet", adminKey, logger.NewNop())

	r := gin.New()
	r.POST("/api/admin/add-sheet", handler.AddSheet)
	return r
}

func doPost(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/add-sheet", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddSheet_WrongKey(t *testing.T) {
	r := newTestRouter("secret")

	w := doPost(r, `{"admin_key": "wrong", "sheet_id": "s1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddSheet_KeyNotConfigured(t *testing.T) {
	// 未配置 admin key 时接口整体关闭
	r := newTestRouter("")

	w := doPost(r, `{"admin_key": "", "sheet_id": "s1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doPost(r, `{"admin_key": "anything", "sheet_id": "s1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddSheet_AppendFailureIsRetryable(t *testing.T) {
	r := newTestRouter("secret")

	// 凭证缺失导致写入失败，按临时错误返回 503
	w := doPost(r, `{"admin_key": "secret", "sheet_id": "s1"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"error":1`)
}
