package etorder

import (
	"strings"

	"github.com/Shirovn55/apinganmiu/internal/app/pkg/jsontree"
)

// cancelledByBuyerSentinel 上游状态哨兵：买家主动取消的订单在详情树里
// 会出现这个字面量（位置不固定，按值全树匹配）
const cancelledByBuyerSentinel = "order_status_text_cancelled_by_buyer"

// buyerTokens 取消方/取消原因里指向买家的关键词（含越南语"người mua"）
var buyerTokens = []string{"buyer", "user", "customer", "người mua"}

// cancelTokens 指向取消动作的关键词（含越南语"hủy"）
var cancelTokens = []string{"cancel", "hủy"}

// IsBuyerCancelled 判断订单是否由买家主动取消。
// 两个独立信号，命中其一即可：
//  1. 哨兵字符串在树中任意位置出现
//  2. cancel_by 与 cancel_reason 拼接后同时含买家关键词和取消关键词
//
// 这是启发式判断，对含糊的订单宁可放行（漏判优于误判，
// 误判会把可选中的订单提前剔除）。
func IsBuyerCancelled(raw interface{}) bool {
	if raw == nil {
		return false
	}

	if jsontree.ContainsString(raw, cancelledByBuyerSentinel) {
		return true
	}

	cancelBy := jsontree.LocateText(raw, "cancel_by")
	if cancelBy == "" {
		cancelBy = jsontree.LocateText(raw, "canceled_by")
	}
	cancelReason := jsontree.LocateText(raw, "cancel_reason")
	if cancelReason == "" {
		cancelReason = jsontree.LocateText(raw, "buyer_cancel_reason")
	}

	combined := strings.ToLower(cancelBy) + " " + strings.ToLower(cancelReason)

	// 两类关键词必须分别命中，单一子串不作数
	return containsAny(combined, buyerTokens) && containsAny(combined, cancelTokens)
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
