package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
)

// Payment is the local record of an intent created with the external processor.
type Payment struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           uint              `gorm:"not null;index" json:"user_id"`
	BookingID        *uint             `gorm:"index" json:"booking_id"`
	CourseID         *uint             `gorm:"index" json:"course_id"`
	Provider         string            `gorm:"size:32;not null" json:"provider"`
	ProviderIntentID string            `gorm:"size:255;not null;uniqueIndex" json:"payment_intent_id"`
	Amount           float64           `gorm:"type:numeric(10,2);not null" json:"amount"`
	AmountMinor      int64             `gorm:"not null" json:"amount_minor"`
	Currency         string            `gorm:"size:3;not null" json:"currency"`
	Status           string            `gorm:"size:32;not null" json:"status"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
