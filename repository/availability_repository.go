package repository

import (
	"context"

	"github.com/talesoul/talesoul-api/models"
	"gorm.io/gorm"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	FindByID(ctx context.Context, id uint) (*models.AvailabilitySlot, error)
	Delete(ctx context.Context, slot *models.AvailabilitySlot) error
	ListByMentor(ctx context.Context, mentorProfileID uint, onlyAvailable bool) ([]models.AvailabilitySlot, error)
}

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	return translate(r.db.WithContext(ctx).Create(slot).Error)
}

func (r *availabilityRepository) FindByID(ctx context.Context, id uint) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, translate(err)
	}
	return &slot, nil
}

func (r *availabilityRepository) Delete(ctx context.Context, slot *models.AvailabilitySlot) error {
	return translate(r.db.WithContext(ctx).Delete(slot).Error)
}

func (r *availabilityRepository) ListByMentor(ctx context.Context, mentorProfileID uint, onlyAvailable bool) ([]models.AvailabilitySlot, error) {
	q := r.db.WithContext(ctx).Where("mentor_id = ?", mentorProfileID)
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	var slots []models.AvailabilitySlot
	err := q.Order("day_of_week ASC, start_time ASC").Find(&slots).Error
	return slots, translate(err)
}
