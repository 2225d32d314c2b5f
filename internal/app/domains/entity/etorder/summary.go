package etorder

import (
	"encoding/json"
	"strings"

	"github.com/Shirovn55/apinganmiu/internal/app/pkg/jsontree"
)

// ProductNamePlaceholder 商品名缺失时的占位符
const ProductNamePlaceholder = "—"

// codAmountDivisor 上游金额字段多带五个零（已知 bug），按整数除法修正
const codAmountDivisor = 100000

// Summary 订单摘要（从一棵订单详情树归一化得到，产出后不再修改）。
// 所有字段都有默认值，字段缺失体现在值本身，不作为错误返回。
type Summary struct {
	TrackingNo      string `json:"tracking_no"`
	StatusText      string `json:"status_text"`
	ShippingName    string `json:"shipping_name"`
	ShippingPhone   string `json:"shipping_phone"`
	ShippingAddress string `json:"shipping_address"`
	ProductName     string `json:"product_name"`
	CodAmount       int64  `json:"cod_amount"`
	ShipperName     string `json:"shipper_name"`
	ShipperPhone    string `json:"shipper_phone"`
	Username        string `json:"username"`
}

// HasSignal 判断摘要是否带有效信息（运单号或状态文案至少有一个）
func (s *Summary) HasSignal() bool {
	return s.TrackingNo != "" || s.StatusText != ""
}

// SummaryFromDetail 从订单详情树提取摘要。
// 每个字段按候选字段名链依次检索，第一个非空命中生效。
// 任意形状的输入（包括空树、非对象）都会返回完整的 Summary。
func SummaryFromDetail(raw interface{}) *Summary {
	s := &Summary{
		TrackingNo:      locateChain(raw, "tracking_number", "tracking_no"),
		ShippingName:    locateChain(raw, "shipping_name", "buyer_address_name"),
		ShippingPhone:   locateChain(raw, "shipping_phone", "buyer_address_phone"),
		ShippingAddress: locateChain(raw, "shipping_address", "address"),
		ShipperName:     jsontree.LocateText(raw, "shipper_name"),
		ShipperPhone:    jsontree.LocateText(raw, "shipper_phone"),
		Username:        jsontree.LocateText(raw, "username"),
	}

	s.StatusText = statusText(raw)
	s.ProductName = productName(raw)
	s.CodAmount = codAmount(raw)

	return s
}

// statusText 状态文案：优先取结构化的 list_view_text.text，退化到 status_label
func statusText(raw interface{}) string {
	if obj, ok := jsontree.Locate(raw, "list_view_text"); ok {
		if m, ok := obj.(map[string]interface{}); ok {
			if text := jsontree.Text(m["text"]); text != "" {
				return text
			}
		}
	}
	return jsontree.LocateText(raw, "status_label")
}

// productName 商品名：沿 parcel_cards[0].product_info.item_groups[0].items
// 固定路径取所有商品名拼接；路径任一层缺失或形状不对就退化到通用检索，
// 仍然为空则输出占位符。
func productName(raw interface{}) string {
	if names := productNamesFromParcelCards(raw); len(names) > 0 {
		return strings.Join(names, ", ")
	}

	if name := locateChain(raw, "product_name", "item_name", "name"); name != "" {
		return name
	}

	return ProductNamePlaceholder
}

func productNamesFromParcelCards(raw interface{}) []string {
	cards, ok := jsontree.Locate(raw, "parcel_cards")
	if !ok {
		return nil
	}

	first, ok := firstElement(cards)
	if !ok {
		return nil
	}

	info, ok := first["product_info"].(map[string]interface{})
	if !ok {
		return nil
	}

	group, ok := firstElement(info["item_groups"])
	if !ok {
		return nil
	}

	items, ok := group["items"].([]interface{})
	if !ok {
		return nil
	}

	var names []string
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if name := jsontree.Text(m["name"]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// firstElement 取数组第一个元素并断言为对象
func firstElement(v interface{}) (map[string]interface{}, bool) {
	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return nil, false
	}
	m, ok := list[0].(map[string]interface{})
	return m, ok
}

// codAmount COD 金额：正值按整数除法去掉上游多出来的五个零，其余归零。
// 必须是精确的整数除法，浮点舍入会让金额偏移。
func codAmount(raw interface{}) int64 {
	v, ok := jsontree.Locate(raw, "total_amount")
	if !ok {
		v, ok = jsontree.Locate(raw, "order_total")
	}
	if !ok {
		return 0
	}

	total := asInt64(v)
	if total <= 0 {
		return 0
	}
	return total / codAmountDivisor
}

// asInt64 标量转 int64，解析失败返回 0。浮点输入向零截断。
func asInt64(v interface{}) int64 {
	num, ok := v.(json.Number)
	if !ok {
		if s, ok := v.(string); ok {
			num = json.Number(s)
		} else {
			return 0
		}
	}

	if n, err := num.Int64(); err == nil {
		return n
	}
	if f, err := num.Float64(); err == nil {
		return int64(f)
	}
	return 0
}

// locateChain 按候选字段名顺序检索，第一个非空文本生效
func locateChain(raw interface{}, keys ...string) string {
	for _, key := range keys {
		if text := jsontree.LocateText(raw, key); text != "" {
			return text
		}
	}
	return ""
}
