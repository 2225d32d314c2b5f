// Package spx 封装 SPX Express（Shopee 自营物流）的公开运单查询接口。
// 纯透传：返回原始 JSON 树，不做字段归一化。
package spx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Shirovn55/apinganmiu/internal/app/pkg/errorx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

// maxResponseSize 响应体上限（1MB）
const maxResponseSize = 1 * 1024 * 1024

const trackPath = "/shipment/order/open/order/get_order_info"

// Client SPX 运单查询客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient 创建 SPX 客户端
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Track 按运单号查询物流轨迹，返回原始响应树
func (c *Client) Track(ctx context.Context, trackingNo string) (interface{}, *errorx.Error) {
	params := url.Values{}
	params.Set("spx_tn", trackingNo)
	params.Set("language_code", "vi")

	endpoint := c.baseURL + trackPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errorx.RetriableWithDetails(503, "Không thể tạo yêu cầu tới SPX", err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnf(ctx, "spx request failed: tracking_no=%s, error=%v", trackingNo, err)
		return nil, errorx.RetriableWithDetails(503, "Không thể kết nối tới SPX, thử lại sau", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errorx.RetriableWithDetails(503, "Đọc phản hồi SPX thất bại", err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errorx.Retriable(resp.StatusCode, "SPX tạm thời không phản hồi, thử lại sau")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var tree interface{}
	if err := dec.Decode(&tree); err != nil {
		return nil, errorx.RetriableWithDetails(503, "Phản hồi SPX không hợp lệ", err.Error())
	}

	return tree, nil
}
