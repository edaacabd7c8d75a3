package repository

import (
	"context"

	"github.com/talesoul/talesoul-api/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	MarkSucceeded(ctx context.Context, intentID string) error
	TotalSucceeded(ctx context.Context) (float64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return translate(r.db.WithContext(ctx).Create(payment).Error)
}

func (r *paymentRepository) FindByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("provider_intent_id = ?", intentID).First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *paymentRepository) MarkSucceeded(ctx context.Context, intentID string) error {
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("provider_intent_id = ?", intentID).
		Update("status", models.PaymentSucceeded).Error
	return translate(err)
}

func (r *paymentRepository) TotalSucceeded(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentSucceeded).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, translate(err)
}
