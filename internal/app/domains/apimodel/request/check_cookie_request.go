package request

// CheckCookieRequest 校验 Cookie 请求（v2，需携带 sheet_id 走激活校验）
type CheckCookieRequest struct {
	Cookie  string `json:"cookie" binding:"required" example:"SPC_ST=.abc123..."`
	SheetID string `json:"sheet_id" binding:"required" example:"1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`
}

// CheckCookieLegacyRequest 旧版校验请求：只有 Cookie
type CheckCookieLegacyRequest struct {
	Cookie string `json:"cookie" binding:"required"`
}
