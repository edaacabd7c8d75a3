package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	FullName       string    `gorm:"size:255;not null" json:"full_name"`
	Role           Role      `gorm:"size:32;not null;default:'user';index" json:"role"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	ProfilePicture *string   `gorm:"size:512" json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
