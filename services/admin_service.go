package services

import (
	"context"

	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/notifications"
	"github.com/talesoul/talesoul-api/repository"
)

type AdminService struct {
	users     repository.UserRepository
	mentors   repository.MentorRepository
	bookings  repository.BookingRepository
	courses   repository.CourseRepository
	payments  repository.PaymentRepository
	notifier  Notifier
	templates *notifications.Templates
}

func NewAdminService(
	users repository.UserRepository,
	mentors repository.MentorRepository,
	bookings repository.BookingRepository,
	courses repository.CourseRepository,
	paymentRepo repository.PaymentRepository,
	notifier Notifier,
	templates *notifications.Templates,
) *AdminService {
	return &AdminService{
		users:     users,
		mentors:   mentors,
		bookings:  bookings,
		courses:   courses,
		payments:  paymentRepo,
		notifier:  notifier,
		templates: templates,
	}
}

type PlatformStats struct {
	TotalUsers                int64   `json:"total_users"`
	TotalMentors              int64   `json:"total_mentors"`
	PendingMentorApplications int64   `json:"pending_mentor_applications"`
	TotalBookings             int64   `json:"total_bookings"`
	TotalCourses              int64   `json:"total_courses"`
	PublishedCourses          int64   `json:"published_courses"`
	TotalRevenue              float64 `json:"total_revenue"`
}

func requireAdmin(actor *models.User) error {
	return auth.Authorize(actor, auth.ActionAdminAccess, auth.RelationNone)
}

func (s *AdminService) Mentors(ctx context.Context, actor *models.User, status *models.MentorStatus, page repository.Page) ([]models.MentorProfile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if status != nil && !status.Valid() {
		return nil, apperror.BadRequest("unknown mentor status")
	}
	mentors, err := s.mentors.List(ctx, status, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return mentors, nil
}

func (s *AdminService) PendingMentors(ctx context.Context, actor *models.User, page repository.Page) ([]models.MentorProfile, error) {
	pending := models.MentorPending
	return s.Mentors(ctx, actor, &pending, page)
}

// DecideMentor approves or rejects an application and emails the applicant.
func (s *AdminService) DecideMentor(ctx context.Context, actor *models.User, mentorProfileID uint, approved bool) (*models.MentorProfile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	profile, err := s.mentors.FindByID(ctx, mentorProfileID)
	if err != nil {
		return nil, lookupErr(err, "mentor profile not found")
	}
	profile.Status = models.MentorRejected
	if approved {
		profile.Status = models.MentorApproved
	}
	if err := s.mentors.Save(ctx, profile); err != nil {
		return nil, apperror.Internal(err)
	}

	loggers.Log.WithField("mentor_id", profile.ID).WithField("status", profile.Status).Info("Mentor application decided")
	if profile.User.ID != 0 {
		s.notifier.Dispatch(s.templates.MentorDecision(&profile.User, approved))
	}
	return profile, nil
}

func (s *AdminService) Users(ctx context.Context, actor *models.User, role *models.Role, page repository.Page) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if role != nil && !role.Valid() {
		return nil, apperror.BadRequest("unknown role")
	}
	users, err := s.users.List(ctx, repository.UserFilter{Role: role, Page: page})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}

func (s *AdminService) User(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user not found")
	}
	return user, nil
}

func (s *AdminService) SetActive(ctx context.Context, actor *models.User, id uint, active bool) (*models.User, error) {
	user, err := s.User(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.ID && !active {
		return nil, apperror.InvalidState("administrators cannot deactivate their own account")
	}
	user.IsActive = active
	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *AdminService) ChangeRole(ctx context.Context, actor *models.User, id uint, newRole string) (*models.User, error) {
	role, ok := models.ParseRole(newRole)
	if !ok {
		return nil, apperror.BadRequest("unknown role")
	}
	user, err := s.User(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.ID && role != models.RoleAdmin {
		return nil, apperror.InvalidState("administrators cannot change their own role")
	}
	user.Role = role
	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (s *AdminService) Stats(ctx context.Context, actor *models.User) (*PlatformStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var stats PlatformStats
	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	if stats.TotalMentors, err = s.mentors.CountByStatus(ctx, models.MentorApproved); err != nil {
		return nil, apperror.Internal(err)
	}
	if stats.PendingMentorApplications, err = s.mentors.CountByStatus(ctx, models.MentorPending); err != nil {
		return nil, apperror.Internal(err)
	}
	if stats.TotalBookings, err = s.bookings.Count(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	if stats.TotalCourses, err = s.courses.Count(ctx, false); err != nil {
		return nil, apperror.Internal(err)
	}
	if stats.PublishedCourses, err = s.courses.Count(ctx, true); err != nil {
		return nil, apperror.Internal(err)
	}
	if stats.TotalRevenue, err = s.payments.TotalSucceeded(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	return &stats, nil
}

func (s *AdminService) Bookings(ctx context.Context, actor *models.User, page repository.Page) ([]models.Booking, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.List(ctx, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return bookings, nil
}

func (s *AdminService) Courses(ctx context.Context, actor *models.User, page repository.Page) ([]models.Course, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	courses, err := s.courses.List(ctx, false, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return courses, nil
}
