package repository

import (
	"context"

	"github.com/talesoul/talesoul-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	// Create relies on the (user_id, course_id) unique index and returns ErrDuplicate
	// when the pair is already enrolled.
	Create(ctx context.Context, enrollment *models.CourseEnrollment) error
	FindByID(ctx context.Context, id uint) (*models.CourseEnrollment, error)
	Find(ctx context.Context, userID, courseID uint) (*models.CourseEnrollment, error)
	Save(ctx context.Context, enrollment *models.CourseEnrollment) error
	SetCertificateURL(ctx context.Context, id uint, url string) error
	ListByUser(ctx context.Context, userID uint) ([]models.CourseEnrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.CourseEnrollment) error {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(enrollment)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uint) (*models.CourseEnrollment, error) {
	var e models.CourseEnrollment
	if err := r.db.WithContext(ctx).Preload("Course.Instructor").Preload("User").First(&e, id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *enrollmentRepository) Find(ctx context.Context, userID, courseID uint) (*models.CourseEnrollment, error) {
	var e models.CourseEnrollment
	err := r.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *enrollmentRepository) Save(ctx context.Context, enrollment *models.CourseEnrollment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(enrollment).Error)
}

func (r *enrollmentRepository) SetCertificateURL(ctx context.Context, id uint, url string) error {
	err := r.db.WithContext(ctx).Model(&models.CourseEnrollment{}).
		Where("id = ?", id).
		Update("certificate_url", url).Error
	return translate(err)
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]models.CourseEnrollment, error) {
	var enrollments []models.CourseEnrollment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("enrolled_at DESC").Find(&enrollments).Error
	return enrollments, translate(err)
}
