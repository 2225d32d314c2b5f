package shopee

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Shirovn55/apinganmiu/internal/app/pkg/errorx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/jsontree"
)

// maxHintBytes 关键词匹配时最多检查响应体前 2000 字节，控制开销
const maxHintBytes = 2000

// transientStatuses 已知的临时性状态码（上游抖动 / 限流 / CDN 故障）
var transientStatuses = map[int]struct{}{
	408: {}, 409: {}, 425: {}, 429: {},
	500: {}, 501: {}, 502: {}, 503: {}, 504: {},
	520: {}, 521: {}, 522: {}, 523: {}, 524: {}, 525: {}, 526: {},
}

// authHints 登录态失效的提示词（含越南语）。命中任意一个就判定 Cookie 失效
var authHints = []string{
	"unauthorized", "forbidden", "invalid", "expired", "expire",
	"token", "cookie", "not logged", "please login", "auth",
	"banned", "ban", "login", "account", "session",
	"đăng nhập", "hết hạn", "tài khoản",
}

// rateHints 限流提示词。命中判定为临时错误，建议状态码 429
var rateHints = []string{
	"too many", "rate limit", "request limit", "captcha", "throttle", "429",
}

// Classify 把上游响应归类为登录态失效或临时错误。
// 只在响应已被判定为失败时调用（非 200 状态码、信封 error != 0、响应体无法解析）。
// 规则按优先级匹配：
//  1. 已知临时状态码 → 临时错误
//  2. 401/403 → 登录态失效
//  3. 响应体消息 + 原始文本（前 2000 字节）小写后含登录态提示词 → 登录态失效
//  4. 响应体为 JSON 且含限流提示词 → 临时错误（429）
//  5. 兜底 → 临时错误（503）。未识别的失败一律不判成 Cookie 失效，
//     误判会让调用方丢弃仍然有效的会话
func Classify(status int, body []byte) *errorx.Error {
	if _, ok := transientStatuses[status]; ok {
		return errorx.Retriable(status, fmt.Sprintf("Shopee tạm thời không phản hồi (HTTP %d), thử lại sau", status))
	}

	if status == 401 || status == 403 {
		return errorx.AuthFailed("Cookie đã hết hạn hoặc không có quyền, vui lòng đăng nhập lại")
	}

	msg, parsed := bodyMessage(body)
	hint := strings.ToLower(msg + " " + string(truncate(body, maxHintBytes)))

	if containsAny(hint, authHints) {
		return errorx.AuthFailed("Cookie đã hết hạn, vui lòng đăng nhập lại")
	}

	// 响应体不是 JSON 时只做登录态匹配，其余直接走兜底
	if parsed && containsAny(hint, rateHints) {
		return errorx.Retriable(429, "Shopee đang giới hạn truy cập, thử lại sau ít phút")
	}

	return errorx.Retriable(503, "Shopee trả về lỗi không xác định, thử lại sau")
}

// bodyMessage 从响应体里提取错误消息字段，第二个返回值标记响应体是否为合法 JSON
func bodyMessage(body []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return "", false
	}

	for _, key := range []string{"msg", "message", "error_msg"} {
		if text := jsontree.LocateText(tree, key); text != "" {
			return text, true
		}
	}
	return "", true
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
