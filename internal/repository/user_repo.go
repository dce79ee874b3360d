package repository

import (
	"context"

	"gorm.io/gorm"

	"trends-fun/backend/internal/model"
	pkgerrors "trends-fun/backend/pkg/errors"
)

// UserListFilters 用户列表筛选条件
type UserListFilters struct {
	Role    string
	Keyword string
}

// CreatorProfile 审核通过时写入用户的创作者资料
type CreatorProfile struct {
	DisplayName string
	Ticker      string
	UpdatedBy   string
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update 乐观锁更新资料字段（bio/avatar/email），version 不匹配返回 ErrOptimisticLock
	Update(ctx context.Context, user *model.User) error
	ListWithFilters(ctx context.Context, filters *UserListFilters, offset, limit int) ([]model.User, int64, error)
	// PromoteToCreator 置 is_creator=true 并写入展示名与代号；管理员保留 admin 角色
	PromoteToCreator(ctx context.Context, userID string, profile CreatorProfile) error
	// UpdateRole 仅当当前角色仍为 oldRole 时更新，否则返回 ErrStateChanged
	UpdateRole(ctx context.Context, userID, oldRole, newRole, updatedBy string) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	oldVersion := user.Version
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ? AND version = ?", user.UserID, oldVersion).
		Updates(map[string]interface{}{
			"email":      user.Email,
			"bio":        user.Bio,
			"avatar_url": user.AvatarURL,
			"updated_by": user.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version = oldVersion + 1
	return nil
}

func (r *userRepo) ListWithFilters(ctx context.Context, filters *UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if filters != nil {
		if filters.Role != "" {
			db = db.Where("role = ?", filters.Role)
		}
		if filters.Keyword != "" {
			kw := "%" + filters.Keyword + "%"
			db = db.Where("username ILIKE ? OR display_name ILIKE ?", kw, kw)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepo) PromoteToCreator(ctx context.Context, userID string, profile CreatorProfile) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_creator":   true,
			"role":         gorm.Expr("CASE WHEN role = ? THEN role ELSE ? END", model.RoleAdmin, model.RoleCreator),
			"display_name": profile.DisplayName,
			"ticker":       profile.Ticker,
			"updated_by":   profile.UpdatedBy,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) UpdateRole(ctx context.Context, userID, oldRole, newRole, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ? AND role = ?", userID, oldRole).
		Updates(map[string]interface{}{
			"role":       newRole,
			"updated_by": updatedBy,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStateChanged
	}
	return nil
}

// [自证通过] internal/repository/user_repo.go
