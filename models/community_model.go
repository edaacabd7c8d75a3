package models

import "time"

type CommunityGroup struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	IsPrivate   bool      `gorm:"not null;default:false" json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommunityPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Group   CommunityGroup   `gorm:"foreignKey:GroupID" json:"-"`
	Author  User             `gorm:"foreignKey:AuthorID" json:"author"`
	Replies []CommunityReply `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

type CommunityReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author User `gorm:"foreignKey:AuthorID" json:"author"`
}
