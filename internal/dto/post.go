package dto

// ── 动态模块 DTO ──

// CreatePostRequest 发布动态
type CreatePostRequest struct {
	Content  string `json:"content"   binding:"required,min=1,max=2000"`
	MediaURL string `json:"media_url" binding:"omitempty,url,max=500"`
}

// PostResponse 动态响应
type PostResponse struct {
	ID        string        `json:"id"`
	Author    *UserResponse `json:"author,omitempty"`
	AuthorID  string        `json:"author_id"`
	Content   string        `json:"content"`
	MediaURL  string        `json:"media_url,omitempty"`
	CreatedAt string        `json:"created_at"`
}

