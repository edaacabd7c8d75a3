package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/notifications"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/search"
	"github.com/talesoul/talesoul-api/storage"
)

type CourseService struct {
	courses      repository.CourseRepository
	enrollments  repository.EnrollmentRepository
	files        storage.FileStorage
	index        search.Index
	certificates CertificateIssuer
	notifier     Notifier
	templates    *notifications.Templates
	policy       *bluemonday.Policy
}

func NewCourseService(
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	files storage.FileStorage,
	index search.Index,
	certificates CertificateIssuer,
	notifier Notifier,
	templates *notifications.Templates,
) *CourseService {
	return &CourseService{
		courses:      courses,
		enrollments:  enrollments,
		files:        files,
		index:        index,
		certificates: certificates,
		notifier:     notifier,
		templates:    templates,
		policy:       bluemonday.UGCPolicy(),
	}
}

type CourseInput struct {
	Title           string
	Description     *string
	Price           float64
	DurationMinutes *int
}

type CourseUpdate struct {
	Title           *string
	Description     *string
	Price           *float64
	DurationMinutes *int
	IsPublished     *bool
}

func (s *CourseService) sanitize(v *string) *string {
	v = trimmed(v)
	if v == nil {
		return nil
	}
	clean := s.policy.Sanitize(*v)
	return &clean
}

func (s *CourseService) Create(ctx context.Context, actor *models.User, in CourseInput) (*models.Course, error) {
	if err := auth.Authorize(actor, auth.ActionCourseCreate, auth.RelationNone); err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, apperror.BadRequest("price cannot be negative")
	}
	course := &models.Course{
		InstructorID:    actor.ID,
		Title:           strings.TrimSpace(in.Title),
		Description:     s.sanitize(in.Description),
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		IsPublished:     false,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, apperror.Internal(err)
	}
	return course, nil
}

// List returns published courses. Administrators may ask for unpublished ones too.
func (s *CourseService) List(ctx context.Context, actor *models.User, publishedOnly bool, page repository.Page) ([]models.Course, error) {
	if actor == nil || actor.Role != models.RoleAdmin {
		publishedOnly = true
	}
	courses, err := s.courses.List(ctx, publishedOnly, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return courses, nil
}

func (s *CourseService) MyCourses(ctx context.Context, actor *models.User) ([]models.Course, error) {
	courses, err := s.courses.ListByInstructor(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return courses, nil
}

// Get hides unpublished courses from everyone except their instructor. actor may be nil.
func (s *CourseService) Get(ctx context.Context, actor *models.User, id uint) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "course not found")
	}
	if course.IsPublished {
		return course, nil
	}
	if actor == nil {
		return nil, apperror.NotFound("course not found")
	}
	err = auth.Authorize(actor, auth.ActionCourseViewUnpublished, auth.OwnerRelation(actor.ID, course.InstructorID))
	if err != nil {
		return nil, hideForbidden(err, "course not found")
	}
	return course, nil
}

func (s *CourseService) loadFor(ctx context.Context, actor *models.User, id uint, action auth.Action) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "course not found")
	}
	if err := auth.Authorize(actor, action, auth.OwnerRelation(actor.ID, course.InstructorID)); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, actor *models.User, id uint, in CourseUpdate) (*models.Course, error) {
	course, err := s.loadFor(ctx, actor, id, auth.ActionCourseUpdate)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			course.Title = t
		}
	}
	if in.Description != nil {
		course.Description = s.sanitize(in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperror.BadRequest("price cannot be negative")
		}
		course.Price = *in.Price
	}
	if in.DurationMinutes != nil {
		course.DurationMinutes = in.DurationMinutes
	}
	if in.IsPublished != nil {
		course.IsPublished = *in.IsPublished
	}
	if err := s.courses.Save(ctx, course); err != nil {
		return nil, apperror.Internal(err)
	}
	s.index.IndexCourse(ctx, course)
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, actor *models.User, id uint) error {
	course, err := s.loadFor(ctx, actor, id, auth.ActionCourseDelete)
	if err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, course); err != nil {
		return apperror.Internal(err)
	}
	s.index.RemoveCourse(ctx, course.ID)
	return nil
}

func (s *CourseService) UploadVideo(ctx context.Context, actor *models.User, id uint, r io.Reader, filename, contentType string) (*models.Course, error) {
	if !videoTypes[contentType] {
		return nil, apperror.BadRequest("only MP4, MPEG, and MOV video files are allowed")
	}
	return s.uploadMedia(ctx, actor, id, r, "course_videos", filename, contentType, func(c *models.Course, url string) {
		c.VideoURL = &url
	})
}

func (s *CourseService) UploadThumbnail(ctx context.Context, actor *models.User, id uint, r io.Reader, filename, contentType string) (*models.Course, error) {
	if !imageTypes[contentType] {
		return nil, apperror.BadRequest("only JPEG and PNG images are allowed")
	}
	return s.uploadMedia(ctx, actor, id, r, "course_thumbnails", filename, contentType, func(c *models.Course, url string) {
		c.ThumbnailURL = &url
	})
}

func (s *CourseService) uploadMedia(ctx context.Context, actor *models.User, id uint, r io.Reader, folder, filename, contentType string, apply func(*models.Course, string)) (*models.Course, error) {
	course, err := s.loadFor(ctx, actor, id, auth.ActionCourseUploadMedia)
	if err != nil {
		return nil, err
	}
	url, err := s.files.Upload(ctx, r, folder, objectName(fmt.Sprintf("course_%d", course.ID), filename), contentType)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, apperror.New(apperror.KindUnavailable, "file storage is not configured")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "failed to upload file", err)
	}
	apply(course, url)
	if err := s.courses.Save(ctx, course); err != nil {
		return nil, apperror.Internal(err)
	}
	return course, nil
}

// Enroll handles free courses. Paid courses are enrolled through payment confirmation.
func (s *CourseService) Enroll(ctx context.Context, actor *models.User, courseID uint) (*models.CourseEnrollment, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, lookupErr(err, "course not found")
	}
	if !course.IsPublished {
		return nil, apperror.NotFound("course not found")
	}
	if course.Price > 0 {
		return nil, apperror.InvalidState("this course requires payment")
	}

	enrollment := &models.CourseEnrollment{UserID: actor.ID, CourseID: course.ID}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("already enrolled in this course")
		}
		return nil, apperror.Internal(err)
	}
	s.notifier.Dispatch(s.templates.CourseEnrollment(course, actor))
	return enrollment, nil
}

func (s *CourseService) MyEnrollments(ctx context.Context, actor *models.User) ([]models.CourseEnrollment, error) {
	enrollments, err := s.enrollments.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return enrollments, nil
}

// UpdateProgress clamps progress to [0, 100]. Reaching 100 completes the enrollment.
func (s *CourseService) UpdateProgress(ctx context.Context, actor *models.User, enrollmentID uint, progress float64) (*models.CourseEnrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, lookupErr(err, "enrollment not found")
	}
	rel := auth.OwnerRelation(actor.ID, enrollment.UserID)
	if err := auth.Authorize(actor, auth.ActionEnrollmentProgress, rel); err != nil {
		return nil, hideForbidden(err, "enrollment not found")
	}

	wasCompleted := enrollment.Completed
	enrollment.ProgressPercentage = clampProgress(progress)
	if enrollment.ProgressPercentage >= 100 {
		enrollment.Completed = true
	}
	if err := s.enrollments.Save(ctx, enrollment); err != nil {
		return nil, apperror.Internal(err)
	}
	if enrollment.Completed && !wasCompleted && s.certificates != nil {
		s.certificates.Issue(enrollment)
	}
	return enrollment, nil
}

func clampProgress(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
