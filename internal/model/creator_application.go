package model

import "time"

// 创作者申请状态：pending → approved | rejected，终态不可再变更
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// CreatorApplication 创作者申请表 — 对应 creator_applications
// 审核后作为审计记录保留，不删除
type CreatorApplication struct {
	ApplicationID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"application_id"`
	ApplicantID          string     `gorm:"type:uuid;not null"                             json:"applicant_id"`
	Status               string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	RequestedDisplayName string     `gorm:"type:varchar(100);not null"                     json:"requested_display_name"`
	RequestedTicker      string     `gorm:"type:varchar(32);not null"                      json:"requested_ticker"`
	Reason               string     `gorm:"type:varchar(1000);not null;default:''"         json:"reason,omitempty"`
	SubmittedAt          time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
	ReviewedAt           *time.Time `json:"reviewed_at,omitempty"`
	ReviewerID           *string    `gorm:"type:uuid"                                      json:"reviewer_id,omitempty"`
	ReviewNote           string     `gorm:"type:varchar(1000);not null;default:''"         json:"review_note,omitempty"`
	BaseModel

	// 关联
	Applicant *User `gorm:"foreignKey:ApplicantID;references:UserID" json:"applicant,omitempty"`
}

// TableName 指定表名
func (CreatorApplication) TableName() string { return "creator_applications" }

// IsPending 是否待审核
func (a *CreatorApplication) IsPending() bool { return a.Status == ApplicationStatusPending }

// [自证通过] internal/model/creator_application.go
