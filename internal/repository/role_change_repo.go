package repository

import (
	"context"

	"gorm.io/gorm"

	"trends-fun/backend/internal/model"
)

// RoleChangeRepository 角色变更审计数据访问接口
type RoleChangeRepository interface {
	Create(ctx context.Context, change *model.RoleChange) error
}

type roleChangeRepo struct {
	db *gorm.DB
}

// NewRoleChangeRepo 创建 RoleChangeRepository 实例
func NewRoleChangeRepo(db *gorm.DB) RoleChangeRepository {
	return &roleChangeRepo{db: db}
}

func (r *roleChangeRepo) Create(ctx context.Context, change *model.RoleChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

