package model

import "time"

// Follow 关注关系表 — 对应 follows（follower 关注 followee）
type Follow struct {
	FollowerID string    `gorm:"type:uuid;primaryKey"               json:"follower_id"`
	FolloweeID string    `gorm:"type:uuid;primaryKey"               json:"followee_id"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Follower *User `gorm:"foreignKey:FollowerID;references:UserID" json:"follower,omitempty"`
	Followee *User `gorm:"foreignKey:FolloweeID;references:UserID" json:"followee,omitempty"`
}

// TableName 指定表名
func (Follow) TableName() string { return "follows" }
