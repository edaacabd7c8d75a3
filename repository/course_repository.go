package repository

import (
	"context"

	"github.com/talesoul/talesoul-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id uint) (*models.Course, error)
	Save(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, course *models.Course) error
	List(ctx context.Context, publishedOnly bool, page Page) ([]models.Course, error)
	ListByInstructor(ctx context.Context, instructorID uint) ([]models.Course, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error; err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).First(&course.Instructor, course.InstructorID).Error)
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Instructor").First(&course, id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepository) Save(ctx context.Context, course *models.Course) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error)
}

func (r *courseRepository) Delete(ctx context.Context, course *models.Course) error {
	return translate(r.db.WithContext(ctx).Select(clause.Associations).Delete(course).Error)
}

func (r *courseRepository) List(ctx context.Context, publishedOnly bool, page Page) ([]models.Course, error) {
	q := r.db.WithContext(ctx).Preload("Instructor")
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var courses []models.Course
	err := page.apply(q.Order("created_at DESC")).Find(&courses).Error
	return courses, translate(err)
}

func (r *courseRepository) ListByInstructor(ctx context.Context, instructorID uint) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).Preload("Instructor").
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, translate(err)
}

func (r *courseRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Course{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var n int64
	err := q.Count(&n).Error
	return n, translate(err)
}
