package model

import "time"

// RoleChange 角色变更审计表 — 对应 role_changes
type RoleChange struct {
	RoleChangeID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"role_change_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	OldRole      string    `gorm:"type:varchar(20);not null"                      json:"old_role"`
	NewRole      string    `gorm:"type:varchar(20);not null"                      json:"new_role"`
	ChangedBy    string    `gorm:"type:uuid;not null"                             json:"changed_by"`
	Reason       string    `gorm:"type:varchar(500);not null;default:''"          json:"reason"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (RoleChange) TableName() string { return "role_changes" }
