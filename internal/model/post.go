package model

// Post 动态表 — 对应 posts
type Post struct {
	PostID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"post_id"`
	AuthorID string `gorm:"type:uuid;not null"                             json:"author_id"`
	Content  string `gorm:"type:varchar(2000);not null"                    json:"content"`
	MediaURL string `gorm:"type:varchar(500);not null;default:''"          json:"media_url,omitempty"`
	SoftDeleteModel

	// 关联
	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

// TableName 指定表名
func (Post) TableName() string { return "posts" }
