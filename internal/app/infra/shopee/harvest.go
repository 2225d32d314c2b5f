package shopee

import (
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/jsontree"
)

// orderIDKey 订单标识的字段名。上游会把它塞进列表项、结算项、
// 嵌套的兄弟结构里反复出现，收集时必须遍历全树
const orderIDKey = "order_id"

// HarvestOrderIDs 从订单列表响应树里收集所有订单标识。
// 只保留标量值，跳过空值，按首次出现顺序去重——下游只取前 N 个
// 去拉详情，首次出现顺序就是调用方可见的契约。
func HarvestOrderIDs(tree interface{}) []string {
	values := jsontree.Collect(tree, orderIDKey)

	seen := make(map[string]struct{}, len(values))
	ids := make([]string, 0, len(values))

	for _, v := range values {
		if !jsontree.IsScalar(v) || jsontree.IsEmptyScalar(v) {
			continue
		}
		id := jsontree.Text(v)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}
