package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 审计字段：创建/更新时间与操作人
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// CreatedByActor 以 actorID 作为创建人与最后更新人
func CreatedByActor(actorID string) BaseModel {
	return BaseModel{CreatedBy: &actorID, UpdatedBy: &actorID}
}

// SoftDeleteModel 动态等可删除内容使用，记录删除人
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 用户资料使用，Version 用于乐观锁
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
