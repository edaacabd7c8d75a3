package models

import "time"

// AvailabilitySlot is advisory display data. Bookings are not checked against it.
type AvailabilitySlot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MentorID    uint      `gorm:"not null;index" json:"mentor_id"`
	DayOfWeek   int       `gorm:"not null" json:"day_of_week"`
	StartTime   string    `gorm:"size:5;not null" json:"start_time"`
	EndTime     string    `gorm:"size:5;not null" json:"end_time"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}
