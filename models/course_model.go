package models

import "time"

type Course struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	InstructorID    uint      `gorm:"not null;index" json:"instructor_id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     *string   `gorm:"type:text" json:"description"`
	VideoURL        *string   `gorm:"size:512" json:"video_url"`
	ThumbnailURL    *string   `gorm:"size:512" json:"thumbnail_url"`
	Price           float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	DurationMinutes *int      `json:"duration_minutes"`
	IsPublished     bool      `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Instructor  User               `gorm:"foreignKey:InstructorID" json:"instructor"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

type CourseEnrollment struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID           uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	EnrolledAt         time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
	Completed          bool      `gorm:"not null;default:false" json:"completed"`
	ProgressPercentage float64   `gorm:"not null;default:0" json:"progress_percentage"`
	PaymentID          *string   `gorm:"size:255" json:"payment_id"`
	CertificateURL     *string   `gorm:"size:512" json:"certificate_url"`

	Course Course `gorm:"foreignKey:CourseID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}
