package dto

// ── 创作者代币模块 DTO ──

// TokenListRequest 代币列表查询参数
type TokenListRequest struct {
	PaginationRequest
	Featured bool `form:"featured"`
}

// UpdateTokenRequest 代币元数据更新（仅 pending 状态、仅所有者）
type UpdateTokenRequest struct {
	Description *string `json:"description" binding:"omitempty,max=1000"`
	ImageURL    *string `json:"image_url"   binding:"omitempty,url,max=500"`
}

// SetFeaturedRequest 设置推荐
type SetFeaturedRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

// CreatorTokenResponse 代币信息响应
type CreatorTokenResponse struct {
	ID              string `json:"id"`
	CreatorID       string `json:"creator_id"`
	TokenName       string `json:"token_name"`
	TokenSymbol     string `json:"token_symbol"`
	Description     string `json:"description,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	ContractAddress string `json:"contract_address,omitempty"`
	Status          string `json:"status"`
	IsFeatured      bool   `json:"is_featured"`
	LaunchDate      string `json:"launch_date,omitempty"`
	CreatedAt       string `json:"created_at"`
}
