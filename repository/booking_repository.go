package repository

import (
	"context"
	"time"

	"github.com/talesoul/talesoul-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	Save(ctx context.Context, booking *models.Booking) error
	ListByRequester(ctx context.Context, userID uint) ([]models.Booking, error)
	ListByMentor(ctx context.Context, mentorUserID uint) ([]models.Booking, error)
	List(ctx context.Context, page Page) ([]models.Booking, error)
	Count(ctx context.Context) (int64, error)
	// ListByStatusScheduledIn returns bookings scheduled in [from, to) and preloads both parties.
	ListByStatusScheduledIn(ctx context.Context, status models.BookingStatus, from, to time.Time) ([]models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Preload("User").Preload("Mentor").First(&booking, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *bookingRepository) Save(ctx context.Context, booking *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(booking).Error)
}

func (r *bookingRepository) ListByRequester(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("scheduled_at DESC").Find(&bookings).Error
	return bookings, translate(err)
}

func (r *bookingRepository) ListByMentor(ctx context.Context, mentorUserID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).Where("mentor_id = ?", mentorUserID).Order("scheduled_at DESC").Find(&bookings).Error
	return bookings, translate(err)
}

func (r *bookingRepository) List(ctx context.Context, page Page) ([]models.Booking, error) {
	var bookings []models.Booking
	err := page.apply(r.db.WithContext(ctx).Order("created_at DESC")).Find(&bookings).Error
	return bookings, translate(err)
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&n).Error
	return n, translate(err)
}

func (r *bookingRepository) ListByStatusScheduledIn(ctx context.Context, status models.BookingStatus, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Mentor").
		Where("status = ? AND scheduled_at >= ? AND scheduled_at < ?", status, from, to).
		Find(&bookings).Error
	return bookings, translate(err)
}
