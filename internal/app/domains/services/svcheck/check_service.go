package svcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Shirovn55/apinganmiu/internal/app/domains/entity/etorder"
	"github.com/Shirovn55/apinganmiu/internal/app/infra/cache"
	"github.com/Shirovn55/apinganmiu/internal/app/infra/shopee"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/errorx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

// cookieKeyPrefixLen 缓存 key 里 Cookie 前缀的长度。
// 不用完整 Cookie：既控制内存，也避免完整凭证出现在 key / 日志里
const cookieKeyPrefixLen = 50

// msgNoEligibleOrders Cookie 有效但选不出订单时的提示
const msgNoEligibleOrders = "Cookie hợp lệ nhưng chưa có đơn hàng"

// OrderFetcher 上游订单接口（shopee.Client 实现）
type OrderFetcher interface {
	ListOrders(ctx context.Context, cookie string, limit, offset int) (interface{}, *errorx.Error)
	GetOrderDetail(ctx context.Context, cookie, orderID string) (interface{}, *errorx.Error)
}

// LicenseVerifier 激活校验（sheets.Client 实现）
type LicenseVerifier interface {
	Verify(ctx context.Context, sheetID string) (bool, string)
}

// Result 一次探测的结果。
// Summary 为 nil 表示 Cookie 有效但没有可选订单——这是正常的空结果，
// 不是失败，两者必须能被调用方区分。
type Result struct {
	Summary *etorder.Summary `json:"order,omitempty"`
	Raw     interface{}      `json:"raw,omitempty"`
	Msg     string           `json:"msg,omitempty"`
}

// Options 编排参数
type Options struct {
	MaxOrders int           // 详情拉取上限
	Workers   int           // 详情拉取并发数
	ResultTTL time.Duration // 命中结果缓存时长
	EmptyTTL  time.Duration // 空结果缓存时长
}

// CheckService Cookie 探测服务，驱动 列表 → 收集标识 → 逐单详情 →
// 失败归类 → 选单 的完整链路。缓存挡在最前面。
type CheckService struct {
	fetcher OrderFetcher
	license LicenseVerifier
	store   cache.Store
	logger  logger.Logger
	opts    Options
}

// NewCheckService 创建探测服务
func NewCheckService(
	fetcher OrderFetcher,
	license LicenseVerifier,
	store cache.Store,
	log logger.Logger,
	opts Options,
) *CheckService {
	if opts.MaxOrders <= 0 {
		opts.MaxOrders = 50
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.ResultTTL <= 0 {
		opts.ResultTTL = 2 * time.Hour
	}
	if opts.EmptyTTL <= 0 {
		opts.EmptyTTL = time.Hour
	}

	return &CheckService{
		fetcher: fetcher,
		license: license,
		store:   store,
		logger:  log,
		opts:    opts,
	}
}

// CheckCookie v2 主流程：激活校验 → 缓存 → 拉取选单。
// 返回值 (结果, 是否命中缓存, 错误)。错误的 Retryable 标记区分
// "稍后重试" 和 "Cookie 已失效"，调用方按此分流。
func (s *CheckService) CheckCookie(ctx context.Context, cookie, sheetID string) (*Result, bool, *errorx.Error) {
	if valid, msg := s.license.Verify(ctx, sheetID); !valid {
		return nil, false, errorx.NonRetriable(403, msg)
	}

	return s.checkWithCache(ctx, cookie, "v2:"+sheetID+":"+cookiePrefix(cookie))
}

// CheckCookieLegacy 旧版接口：不做激活校验
func (s *CheckService) CheckCookieLegacy(ctx context.Context, cookie string) (*Result, bool, *errorx.Error) {
	return s.checkWithCache(ctx, cookie, "v1:"+cookiePrefix(cookie))
}

// checkWithCache 带缓存的探测。
// 同 key 并发未命中会各自回源（没有 single-flight，接受重复拉取）。
func (s *CheckService) checkWithCache(ctx context.Context, cookie, key string) (*Result, bool, *errorx.Error) {
	if b, ok := s.store.Get(ctx, key); ok {
		// UseNumber：Raw 树里的 18 位订单号不能经 float64 丢精度
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var cached Result
		if err := dec.Decode(&cached); err == nil {
			return &cached, true, nil
		}
		s.logger.Warnf(ctx, "drop corrupted cache entry: key=%s", key)
	}

	result, ferr := s.fetchAndSelect(ctx, cookie)
	if ferr != nil {
		// 失败不缓存：临时故障很快恢复，失效 Cookie 由调用方换新
		return nil, false, ferr
	}

	ttl := s.opts.ResultTTL
	if result.Summary == nil {
		ttl = s.opts.EmptyTTL
	}
	if b, err := json.Marshal(result); err == nil {
		s.store.Put(ctx, key, b, ttl)
	}

	return result, false, nil
}

// fetchAndSelect 拉取订单列表并选出一单。
// 列表响应先归类再解析；选单策略：按收集顺序取第一个
// 非买家取消、且摘要有信息量（运单号或状态文案）的订单，
// 不做其他"更优"排序。
func (s *CheckService) fetchAndSelect(ctx context.Context, cookie string) (*Result, *errorx.Error) {
	tree, ferr := s.fetcher.ListOrders(ctx, cookie, s.opts.MaxOrders, 0)
	if ferr != nil {
		return nil, ferr
	}

	ids := shopee.HarvestOrderIDs(tree)
	if len(ids) > s.opts.MaxOrders {
		ids = ids[:s.opts.MaxOrders]
	}

	s.logger.Infof(ctx, "harvested %d order ids", len(ids))

	for _, raw := range s.fetchDetails(ctx, cookie, ids) {
		if raw == nil {
			continue
		}
		if etorder.IsBuyerCancelled(raw) {
			continue
		}
		summary := etorder.SummaryFromDetail(raw)
		if !summary.HasSignal() {
			continue
		}
		return &Result{Summary: summary, Raw: raw}, nil
	}

	return &Result{Msg: msgNoEligibleOrders}, nil
}

// fetchDetails 并发拉取订单详情，结果按收集顺序回填。
// 单个订单失败只记日志并留空，不让整批失败。
func (s *CheckService) fetchDetails(ctx context.Context, cookie string, ids []string) []interface{} {
	details := make([]interface{}, len(ids))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)

	for i, id := range ids {
		g.Go(func() error {
			raw, ferr := s.fetcher.GetOrderDetail(ctx, cookie, id)
			if ferr != nil {
				s.logger.Warnf(ctx, "fetch order detail failed, skip: order_id=%s, error=%v", id, ferr)
				return nil
			}
			details[i] = raw
			return nil
		})
	}

	_ = g.Wait()
	return details
}

func cookiePrefix(cookie string) string {
	if len(cookie) > cookieKeyPrefixLen {
		return cookie[:cookieKeyPrefixLen]
	}
	return cookie
}
