package svcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shirovn55/apinganmiu/internal/app/infra/cache"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/errorx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/jsontree"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

// fakeFetcher 可编排的上游桩
type fakeFetcher struct {
	listTree    interface{}
	listErr     *errorx.Error
	details     map[string]interface{}
	detailErrs  map[string]*errorx.Error
	listCalls   int
	detailCalls int
}

func (f *fakeFetcher) ListOrders(ctx context.Context, cookie string, limit, offset int) (interface{}, *errorx.Error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listTree, nil
}

func (f *fakeFetcher) GetOrderDetail(ctx context.Context, cookie, orderID string) (interface{}, *errorx.Error) {
	f.detailCalls++
	if e, ok := f.detailErrs[orderID]; ok {
		return nil, e
	}
	if d, ok := f.details[orderID]; ok {
		return d, nil
	}
	return map[string]interface{}{}, nil
}

// fakeLicense 激活校验桩
type fakeLicense struct {
	valid bool
	msg   string
}

func (f *fakeLicense) Verify(ctx context.Context, sheetID string) (bool, string) {
	return f.valid, f.msg
}

func mustTree(t *testing.T, raw string) interface{} {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var tree interface{}
	require.NoError(t, dec.Decode(&tree))
	return tree
}

func newService(fetcher *fakeFetcher, license *fakeLicense, store cache.Store) *CheckService {
	return NewCheckService(fetcher, license, store, logger.NewNop(), Options{
		MaxOrders: 50,
		Workers:   2,
		ResultTTL: time.Hour,
		EmptyTTL:  time.Minute,
	})
}

func TestCheckCookie_EndToEnd(t *testing.T) {
	// 列表里 3 个标识、1 个重复 → 收集到 2 个；
	// 第一个详情拉取失败被跳过，第二个有运单号且非买家取消 → 被选中
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{
			"data": {
				"order_list": [
					{"order_id": 111, "nested": {"order_id": 222}},
					{"order_id": 111}
				]
			}
		}`),
		details: map[string]interface{}{
			"222": mustTree(t, `{
				"tracking_number": "SPXVN002",
				"list_view_text": {"text": "Đang giao hàng"}
			}`),
		},
		detailErrs: map[string]*errorx.Error{
			"111": errorx.Retriable(503, "connection reset"),
		},
	}

	svc := newService(fetcher, &fakeLicense{valid: true, msg: "OK"}, cache.NewMemoryStore())

	result, cached, ferr := svc.CheckCookie(context.Background(), "SPC_ST=abc", "sheet1")
	require.Nil(t, ferr)
	assert.False(t, cached)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "SPXVN002", result.Summary.TrackingNo)
	assert.Equal(t, "Đang giao hàng", result.Summary.StatusText)
	assert.NotNil(t, result.Raw)
	assert.Equal(t, 2, fetcher.detailCalls)
}

func TestCheckCookie_SkipsBuyerCancelled(t *testing.T) {
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{"data": {"order_list": [{"order_id": 1}, {"order_id": 2}]}}`),
		details: map[string]interface{}{
			"1": mustTree(t, `{
				"tracking_number": "SPXVN001",
				"cancel_by": "buyer",
				"cancel_reason": "user cancelled order"
			}`),
			"2": mustTree(t, `{"tracking_number": "SPXVN002"}`),
		},
	}

	svc := newService(fetcher, &fakeLicense{valid: true}, cache.NewMemoryStore())

	result, _, ferr := svc.CheckCookie(context.Background(), "c", "s")
	require.Nil(t, ferr)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "SPXVN002", result.Summary.TrackingNo)
}

func TestCheckCookie_SkipsNoSignal(t *testing.T) {
	// 运单号和状态文案都为空的订单没有信息量，跳过
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{"data": {"order_list": [{"order_id": 1}, {"order_id": 2}]}}`),
		details: map[string]interface{}{
			"1": mustTree(t, `{"note": "nothing useful"}`),
			"2": mustTree(t, `{"status_label": "Hoàn thành"}`),
		},
	}

	svc := newService(fetcher, &fakeLicense{valid: true}, cache.NewMemoryStore())

	result, _, ferr := svc.CheckCookie(context.Background(), "c", "s")
	require.Nil(t, ferr)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "Hoàn thành", result.Summary.StatusText)
}

func TestCheckCookie_NoEligibleOrders(t *testing.T) {
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{"data": {"order_list": []}}`),
	}
	store := cache.NewMemoryStore()
	svc := newService(fetcher, &fakeLicense{valid: true}, store)

	result, cached, ferr := svc.CheckCookie(context.Background(), "c", "s")
	require.Nil(t, ferr)
	assert.False(t, cached)
	// 有效 Cookie 的空结果不是失败
	assert.Nil(t, result.Summary)
	assert.Equal(t, msgNoEligibleOrders, result.Msg)
	// 空结果也会进缓存（短 TTL）
	assert.Equal(t, 1, store.Size())
}

func TestCheckCookie_LicenseRejected(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newService(fetcher, &fakeLicense{valid: false, msg: "🔒 Sheet chưa được kích hoạt."}, cache.NewMemoryStore())

	_, _, ferr := svc.CheckCookie(context.Background(), "c", "s")
	require.NotNil(t, ferr)
	assert.Equal(t, 403, ferr.Code)
	// 激活被拒时不触碰上游
	assert.Equal(t, 0, fetcher.listCalls)
}

func TestCheckCookie_AuthFailurePropagated(t *testing.T) {
	fetcher := &fakeFetcher{
		listErr: errorx.AuthFailed("Cookie đã hết hạn"),
	}
	store := cache.NewMemoryStore()
	svc := newService(fetcher, &fakeLicense{valid: true}, store)

	_, _, ferr := svc.CheckCookie(context.Background(), "c", "s")
	require.NotNil(t, ferr)
	assert.True(t, errorx.IsAuthFailure(ferr))
	// 失败不进缓存
	assert.Equal(t, 0, store.Size())
}

func TestCheckCookie_CacheHit(t *testing.T) {
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{"data": {"order_list": [{"order_id": 1}]}}`),
		details: map[string]interface{}{
			"1": mustTree(t, `{"tracking_number": "SPXVN001"}`),
		},
	}
	svc := newService(fetcher, &fakeLicense{valid: true}, cache.NewMemoryStore())

	_, cached, ferr := svc.CheckCookie(context.Background(), "cookie", "sheet")
	require.Nil(t, ferr)
	assert.False(t, cached)

	result, cached, ferr := svc.CheckCookie(context.Background(), "cookie", "sheet")
	require.Nil(t, ferr)
	assert.True(t, cached)
	require.NotNil(t, result.Summary)
	assert.Equal(t, "SPXVN001", result.Summary.TrackingNo)
	// 第二次不再回源
	assert.Equal(t, 1, fetcher.listCalls)
}

func TestCheckCookie_CacheHitPreservesOrderID(t *testing.T) {
	// 18 位订单号超出 float64 精度，缓存命中后必须原样返回
	const bigID = "123456789012345678"
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{"data": {"order_list": [{"order_id": `+bigID+`}]}}`),
		details: map[string]interface{}{
			bigID: mustTree(t, `{"order_id": `+bigID+`, "tracking_number": "SPXVN001"}`),
		},
	}
	svc := newService(fetcher, &fakeLicense{valid: true}, cache.NewMemoryStore())

	first, cached, ferr := svc.CheckCookie(context.Background(), "cookie", "sheet")
	require.Nil(t, ferr)
	require.False(t, cached)
	id, ok := jsontree.Locate(first.Raw, "order_id")
	require.True(t, ok)
	assert.Equal(t, json.Number(bigID), id)

	second, cached, ferr := svc.CheckCookie(context.Background(), "cookie", "sheet")
	require.Nil(t, ferr)
	require.True(t, cached)
	id, ok = jsontree.Locate(second.Raw, "order_id")
	require.True(t, ok)
	assert.Equal(t, json.Number(bigID), id)
}

func TestCheckCookie_CacheKeyedBySheetAndCookiePrefix(t *testing.T) {
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{"data": {"order_list": [{"order_id": 1}]}}`),
		details: map[string]interface{}{
			"1": mustTree(t, `{"tracking_number": "SPXVN001"}`),
		},
	}
	svc := newService(fetcher, &fakeLicense{valid: true}, cache.NewMemoryStore())

	_, _, ferr := svc.CheckCookie(context.Background(), "cookie", "sheetA")
	require.Nil(t, ferr)

	// 不同 sheet_id 不共享缓存
	_, cached, ferr := svc.CheckCookie(context.Background(), "cookie", "sheetB")
	require.Nil(t, ferr)
	assert.False(t, cached)
	assert.Equal(t, 2, fetcher.listCalls)
}

func TestCheckCookieLegacy_SkipsLicense(t *testing.T) {
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{"data": {"order_list": [{"order_id": 1}]}}`),
		details: map[string]interface{}{
			"1": mustTree(t, `{"tracking_number": "SPXVN001"}`),
		},
	}
	// 激活校验配置为拒绝，但旧版接口不走校验
	svc := newService(fetcher, &fakeLicense{valid: false, msg: "locked"}, cache.NewMemoryStore())

	result, _, ferr := svc.CheckCookieLegacy(context.Background(), "cookie")
	require.Nil(t, ferr)
	require.NotNil(t, result.Summary)
}

func TestCheckCookie_MaxOrdersTruncation(t *testing.T) {
	fetcher := &fakeFetcher{
		listTree: mustTree(t, `{"data": {"order_list": [
			{"order_id": 1}, {"order_id": 2}, {"order_id": 3}, {"order_id": 4}
		]}}`),
		details: map[string]interface{}{},
	}
	svc := NewCheckService(fetcher, &fakeLicense{valid: true}, cache.NewMemoryStore(), logger.NewNop(), Options{
		MaxOrders: 2,
		Workers:   1,
		ResultTTL: time.Hour,
		EmptyTTL:  time.Minute,
	})

	_, _, ferr := svc.CheckCookie(context.Background(), "c", "s")
	require.Nil(t, ferr)
	assert.Equal(t, 2, fetcher.detailCalls)
}
