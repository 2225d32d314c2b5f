package shopee

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Shirovn55/apinganmiu/internal/app/pkg/errorx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

// maxResponseSize 上游响应体上限（2MB）
const maxResponseSize = 2 * 1024 * 1024

const (
	listOrdersPath  = "/order/get_all_order_and_checkout_list"
	orderDetailPath = "/order/get_order_detail"
)

// Client Shopee 私有订单接口客户端（买家侧）。
// 接口未公开文档，返回结构随版本静默变化，本层只负责请求和
// 失败归类，字段提取交给上层按字段名全树检索。
type Client struct {
	baseURL    string
	userAgent  string
	referer    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient 创建 Shopee 客户端
func NewClient(baseURL, userAgent, referer string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		referer:   referer,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// ListOrders 拉取订单与结算列表。
// 返回整个响应树（订单标识散落在信封各处，收集范围必须覆盖全树）。
func (c *Client) ListOrders(ctx context.Context, cookie string, limit, offset int) (interface{}, *errorx.Error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	status, body, err := c.get(ctx, listOrdersPath, cookie, params)
	if err != nil {
		return nil, err
	}

	tree, err := c.decodeEnvelope(status, body)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// GetOrderDetail 拉取单个订单详情，返回信封里的 data 子树
func (c *Client) GetOrderDetail(ctx context.Context, cookie, orderID string) (interface{}, *errorx.Error) {
	params := url.Values{}
	params.Set("order_id", orderID)

	status, body, err := c.get(ctx, orderDetailPath, cookie, params)
	if err != nil {
		return nil, err
	}

	tree, err := c.decodeEnvelope(status, body)
	if err != nil {
		return nil, err
	}

	if m, ok := tree.(map[string]interface{}); ok {
		if data, ok := m["data"]; ok {
			return data, nil
		}
	}
	return map[string]interface{}{}, nil
}

// get 发起 GET 请求。网络层失败（连接错误、超时）一律归类为临时错误，
// 不做进一步区分——在收到响应之前无法判断 Cookie 是否有效
func (c *Client) get(ctx context.Context, path, cookie string, params url.Values) (int, []byte, *errorx.Error) {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, errorx.RetriableWithDetails(503, "Không thể tạo yêu cầu tới Shopee", err.Error())
	}

	req.Header.Set("cookie", cookie)
	req.Header.Set("user-agent", c.userAgent)
	req.Header.Set("referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf(ctx, "shopee request failed: path=%s, error=%v", path, err)
		return 0, nil, errorx.RetriableWithDetails(503, "Không thể kết nối tới Shopee, thử lại sau", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, errorx.RetriableWithDetails(503, "Đọc phản hồi Shopee thất bại", err.Error())
	}

	return resp.StatusCode, body, nil
}

// decodeEnvelope 解析响应信封。失败路径全部交给 Classify 归类：
// 非 200 状态码、响应体不是 JSON、信封 error != 0。
// 分类发生在这里（拿到响应后的第一时间），结果原样向上传递，
// 下游不再二次解读
func (c *Client) decodeEnvelope(status int, body []byte) (interface{}, *errorx.Error) {
	if status != http.StatusOK {
		return nil, Classify(status, body)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		// 无法解析的响应体只做提示词匹配
		return nil, Classify(status, body)
	}

	if m, ok := tree.(map[string]interface{}); ok {
		if errCode, ok := m["error"].(json.Number); ok && errCode.String() != "0" {
			return nil, Classify(status, body)
		}
	}

	return tree, nil
}
