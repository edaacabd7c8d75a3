package models

import "time"

type Booking struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"not null;index" json:"user_id"`
	MentorID        uint          `gorm:"not null;index" json:"mentor_id"`
	ScheduledAt     time.Time     `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes int           `gorm:"not null;default:60" json:"duration_minutes"`
	Status          BookingStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	MeetingLink     *string       `gorm:"size:512" json:"meeting_link"`
	Notes           *string       `gorm:"type:text" json:"notes"`
	Price           float64       `gorm:"type:numeric(10,2);not null" json:"price"`
	PaymentID       *string       `gorm:"size:255" json:"payment_id"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	User   User `gorm:"foreignKey:UserID" json:"-"`
	Mentor User `gorm:"foreignKey:MentorID" json:"-"`
}
