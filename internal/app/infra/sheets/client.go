// Package sheets 实现基于 Google Sheets 的激活（license）查询。
// 激活表由运营人工维护，一行一个 sheet_id；服务端只读状态列。
// 查询链路不可用时放行（可用性优先于严格校验，故意的取舍，
// 改动前先确认调用方能接受校验变严）。
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
)

const (
	// activationRange 激活表的读取范围（tab 名固定）
	activationRange = "Kích hoạt GGS!A2:E1000"

	// appendRange 管理端追加激活记录的范围
	appendRange = "Kích hoạt GGS!A:E"

	// statusActivated 激活状态列的有效值
	statusActivated = "Đã kích hoạt"

	// 列下标：B 列是 sheet_id，E 列是状态
	colSheetID = 1
	colStatus  = 4
)

// Client 激活表客户端。凭证为空时进入 dev 模式（全部放行）。
type Client struct {
	credsJSON    []byte
	contactPhone string
	logger       logger.Logger

	initOnce sync.Once
	svc      *gsheets.Service
	initErr  error
}

// NewClient 创建激活表客户端
func NewClient(credsJSON []byte, contactPhone string, log logger.Logger) *Client {
	return &Client{
		credsJSON:    credsJSON,
		contactPhone: contactPhone,
		logger:       log,
	}
}

// service 懒加载 Sheets API 服务（进程内只构建一次）
func (c *Client) service(ctx context.Context) (*gsheets.Service, error) {
	c.initOnce.Do(func() {
		c.svc, c.initErr = gsheets.NewService(
			context.Background(),
			option.WithCredentialsJSON(c.credsJSON),
			option.WithScopes(gsheets.SpreadsheetsScope),
		)
	})
	return c.svc, c.initErr
}

// Verify 校验 sheet_id 是否已激活，返回 (是否有效, 给用户看的消息)。
// 凭证缺失、API 构建失败、查询失败都放行——宁可放过也不在
// Google 侧抖动时拦住正常用户。
func (c *Client) Verify(ctx context.Context, sheetID string) (bool, string) {
	if len(c.credsJSON) == 0 {
		return true, "OK (dev)"
	}

	svc, err := c.service(ctx)
	if err != nil {
		c.logger.Warnf(ctx, "sheets service init failed, fail open: %v", err)
		return true, "OK (fallback)"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := svc.Spreadsheets.Values.Get(sheetID, activationRange).Context(ctx).Do()
	if err != nil {
		c.logger.Warnf(ctx, "sheets verify failed, fail open: sheet_id=%s, error=%v", sheetID, err)
		return true, "OK (fallback)"
	}

	if len(resp.Values) == 0 {
		return false, c.notActivatedMessage()
	}

	for _, row := range resp.Values {
		if len(row) <= colStatus {
			continue
		}

		rowSheetID := strings.TrimSpace(cellText(row[colSheetID]))
		status := strings.TrimSpace(cellText(row[colStatus]))

		if rowSheetID != sheetID {
			continue
		}

		if status == statusActivated {
			return true, "OK"
		}
		return false, fmt.Sprintf("🔒 Sheet: %s\n📞 Liên hệ: %s", status, c.contactPhone)
	}

	return false, c.notActivatedMessage()
}

// AppendActivation 追加一条激活记录（管理端接口使用）
func (c *Client) AppendActivation(ctx context.Context, sheetID, targetID, expireAt, note string) error {
	if len(c.credsJSON) == 0 {
		return fmt.Errorf("sheets credentials not configured")
	}

	svc, err := c.service(ctx)
	if err != nil {
		return fmt.Errorf("sheets service init failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	row := []interface{}{
		time.Now().Format("2006-01-02 15:04:05"),
		targetID,
		expireAt,
		note,
		statusActivated,
	}

	_, err = svc.Spreadsheets.Values.
		Append(sheetID, appendRange, &gsheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append failed: %w", err)
	}

	return nil
}

func (c *Client) notActivatedMessage() string {
	return fmt.Sprintf("🔒 Sheet chưa được kích hoạt.\n📞 Liên hệ: %s", c.contactPhone)
}

func cellText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
