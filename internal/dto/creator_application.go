package dto

// ── 创作者申请模块 DTO ──

// SubmitApplicationRequest 提交创作者申请
type SubmitApplicationRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
	Ticker      string `json:"ticker"       binding:"required,min=1,max=32"`
	Reason      string `json:"reason"       binding:"omitempty,max=1000"`
}

// ApplicationListRequest 申请列表查询参数
type ApplicationListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// ApplicationOverrides 审核通过时管理员可覆盖的展示名与代号
type ApplicationOverrides struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Ticker      *string `json:"ticker"       binding:"omitempty,max=32"`
}

// DecideApplicationRequest 审核决定
type DecideApplicationRequest struct {
	Decision  string                `json:"decision"  binding:"required,oneof=approve reject"`
	Note      string                `json:"note"      binding:"omitempty,max=1000"`
	Overrides *ApplicationOverrides `json:"overrides"`
}

// ApplicationResponse 申请信息响应
type ApplicationResponse struct {
	ID                   string        `json:"id"`
	ApplicantID          string        `json:"applicant_id"`
	Applicant            *UserResponse `json:"applicant,omitempty"`
	Status               string        `json:"status"`
	RequestedDisplayName string        `json:"requested_display_name"`
	RequestedTicker      string        `json:"requested_ticker"`
	Reason               string        `json:"reason,omitempty"`
	SubmittedAt          string        `json:"submitted_at"`
	ReviewedAt           string        `json:"reviewed_at,omitempty"`
	ReviewerID           string        `json:"reviewer_id,omitempty"`
	ReviewNote           string        `json:"review_note,omitempty"`
}

// DecisionResponse 审核结果；通过时附带新建的代币
type DecisionResponse struct {
	Application ApplicationResponse   `json:"application"`
	Token       *CreatorTokenResponse `json:"token,omitempty"`
}

// PendingCountResponse 待审核数量
type PendingCountResponse struct {
	Count int64 `json:"count"`
}
