package models

import "time"

type MentorProfile struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	UserID            uint         `gorm:"not null;uniqueIndex" json:"user_id"`
	Bio               *string      `gorm:"type:text" json:"bio"`
	Expertise         *string      `gorm:"size:512" json:"expertise"`
	YearsOfExperience *int         `json:"years_of_experience"`
	HourlyRate        *float64     `gorm:"type:numeric(10,2)" json:"hourly_rate"`
	LinkedInURL       *string      `gorm:"column:linkedin_url;size:512" json:"linkedin_url"`
	GitHubURL         *string      `gorm:"column:github_url;size:512" json:"github_url"`
	Status            MentorStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`

	User              User               `gorm:"foreignKey:UserID" json:"user"`
	AvailabilitySlots []AvailabilitySlot `gorm:"foreignKey:MentorID;constraint:OnDelete:CASCADE" json:"-"`
}

// Rate returns the hourly rate, treating an unset rate as zero.
func (m *MentorProfile) Rate() float64 {
	if m.HourlyRate == nil {
		return 0
	}
	return *m.HourlyRate
}
