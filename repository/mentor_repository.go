package repository

import (
	"context"

	"github.com/talesoul/talesoul-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MentorRepository interface {
	FindByID(ctx context.Context, id uint) (*models.MentorProfile, error)
	FindByUserID(ctx context.Context, userID uint) (*models.MentorProfile, error)
	// CreateApplication inserts a pending profile and promotes the user to mentor in one
	// transaction. It returns ErrDuplicate when the user already has a profile.
	CreateApplication(ctx context.Context, profile *models.MentorProfile) error
	Save(ctx context.Context, profile *models.MentorProfile) error
	List(ctx context.Context, status *models.MentorStatus, page Page) ([]models.MentorProfile, error)
	CountByStatus(ctx context.Context, status models.MentorStatus) (int64, error)
}

type mentorRepository struct {
	db *gorm.DB
}

func NewMentorRepository(db *gorm.DB) MentorRepository {
	return &mentorRepository{db: db}
}

func (r *mentorRepository) FindByID(ctx context.Context, id uint) (*models.MentorProfile, error) {
	var profile models.MentorProfile
	if err := r.db.WithContext(ctx).Preload("User").First(&profile, id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *mentorRepository) FindByUserID(ctx context.Context, userID uint) (*models.MentorProfile, error) {
	var profile models.MentorProfile
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *mentorRepository) CreateApplication(ctx context.Context, profile *models.MentorProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
			Create(profile)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrDuplicate
		}
		err := tx.Model(&models.User{}).
			Where("id = ? AND role = ?", profile.UserID, models.RoleUser).
			Update("role", models.RoleMentor).Error
		return translate(err)
	})
}

func (r *mentorRepository) Save(ctx context.Context, profile *models.MentorProfile) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error)
}

func (r *mentorRepository) List(ctx context.Context, status *models.MentorStatus, page Page) ([]models.MentorProfile, error) {
	q := r.db.WithContext(ctx).Preload("User")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var profiles []models.MentorProfile
	err := page.apply(q.Order("created_at DESC")).Find(&profiles).Error
	return profiles, translate(err)
}

func (r *mentorRepository) CountByStatus(ctx context.Context, status models.MentorStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MentorProfile{}).Where("status = ?", status).Count(&n).Error
	return n, translate(err)
}
