package request

// AddSheetRequest 登记激活 Sheet 请求
type AddSheetRequest struct {
	AdminKey string `json:"admin_key" binding:"required"`
	SheetID  string `json:"sheet_id" binding:"required"`
	ExpireAt string `json:"expire_at" example:"2026-12-31"`
	Note     string `json:"note"`
}
