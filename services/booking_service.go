package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/notifications"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/websocket"
)

const defaultSessionMinutes = 60

// transitions lists the allowed status changes. Writing the current status again is a no-op.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled, models.BookingCompleted},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

func canTransition(from, to models.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type BookingService struct {
	bookings  repository.BookingRepository
	users     repository.UserRepository
	mentors   repository.MentorRepository
	notifier  Notifier
	events    EventPublisher
	templates *notifications.Templates
}

func NewBookingService(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	mentors repository.MentorRepository,
	notifier Notifier,
	events EventPublisher,
	templates *notifications.Templates,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		users:     users,
		mentors:   mentors,
		notifier:  notifier,
		events:    events,
		templates: templates,
	}
}

type CreateBookingInput struct {
	MentorID        uint
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           *string
}

type UpdateBookingInput struct {
	Status      *models.BookingStatus
	MeetingLink *string
	Notes       *string
}

// SessionPrice is the hourly rate prorated over the session length, rounded to cents.
func SessionPrice(hourlyRate float64, durationMinutes int) float64 {
	return math.Round(hourlyRate*float64(durationMinutes)/60*100) / 100
}

func (s *BookingService) Create(ctx context.Context, actor *models.User, in CreateBookingInput) (*models.Booking, error) {
	if in.DurationMinutes == 0 {
		in.DurationMinutes = defaultSessionMinutes
	}
	if in.DurationMinutes < 0 {
		return nil, apperror.BadRequest("duration_minutes must be positive")
	}

	mentor, err := s.users.FindByID(ctx, in.MentorID)
	if err != nil {
		return nil, lookupErr(err, "mentor not found")
	}
	profile, err := s.mentors.FindByUserID(ctx, mentor.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if profile == nil || profile.Status != models.MentorApproved {
		return nil, apperror.InvalidState("this mentor is not approved yet")
	}

	booking := &models.Booking{
		UserID:          actor.ID,
		MentorID:        mentor.ID,
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Status:          models.BookingPending,
		Notes:           trimmed(in.Notes),
		Price:           SessionPrice(profile.Rate(), in.DurationMinutes),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, apperror.Internal(err)
	}
	booking.User = *actor
	booking.Mentor = *mentor

	s.publish(websocket.EventBookingUpdated, booking)
	return booking, nil
}

func (s *BookingService) load(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "booking not found")
	}
	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionBookingView, auth.BookingRelation(actor.ID, booking)); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListMine(ctx context.Context, actor *models.User) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByRequester(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return bookings, nil
}

func (s *BookingService) ListAsMentor(ctx context.Context, actor *models.User) ([]models.Booking, error) {
	if _, err := s.mentors.FindByUserID(ctx, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Forbidden("only mentors can access this endpoint")
		}
		return nil, apperror.Internal(err)
	}
	bookings, err := s.bookings.ListByMentor(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return bookings, nil
}

// Update is the mentor's edit path. Status changes go through the transition table.
func (s *BookingService) Update(ctx context.Context, actor *models.User, id uint, in UpdateBookingInput) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionBookingUpdate, auth.BookingRelation(actor.ID, booking)); err != nil {
		return nil, err
	}

	previous := booking.Status
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperror.BadRequest("unknown booking status")
		}
		if !canTransition(booking.Status, *in.Status) {
			return nil, apperror.InvalidState("cannot move a " + string(booking.Status) + " booking to " + string(*in.Status))
		}
		booking.Status = *in.Status
	}
	if in.MeetingLink != nil && strings.TrimSpace(*in.MeetingLink) != "" {
		booking.MeetingLink = trimmed(in.MeetingLink)
	}
	if in.Notes != nil && strings.TrimSpace(*in.Notes) != "" {
		booking.Notes = trimmed(in.Notes)
	}

	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, apperror.Internal(err)
	}
	s.afterStatusChange(booking, previous)
	return booking, nil
}

// Cancel may be called by either party. Cancelling a cancelled booking succeeds without changes.
func (s *BookingService) Cancel(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionBookingCancel, auth.BookingRelation(actor.ID, booking)); err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking)
}

func (s *BookingService) cancel(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if booking.Status == models.BookingCancelled {
		return booking, nil
	}
	if !canTransition(booking.Status, models.BookingCancelled) {
		return nil, apperror.InvalidState("a " + string(booking.Status) + " booking cannot be cancelled")
	}
	previous := booking.Status
	booking.Status = models.BookingCancelled
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, apperror.Internal(err)
	}
	s.afterStatusChange(booking, previous)
	return booking, nil
}

// ConfirmViaPayment marks the requester's booking as paid. Only the payment bridge calls it.
func (s *BookingService) ConfirmViaPayment(ctx context.Context, actor *models.User, id uint, paymentRef string) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionBookingPay, auth.BookingRelation(actor.ID, booking)); err != nil {
		return nil, hideForbidden(err, "booking not found")
	}
	if !canTransition(booking.Status, models.BookingConfirmed) {
		return nil, apperror.InvalidState("a " + string(booking.Status) + " booking cannot be confirmed")
	}
	if booking.PaymentID != nil && *booking.PaymentID != paymentRef {
		return nil, apperror.Conflict("booking is already paid")
	}

	previous := booking.Status
	booking.Status = models.BookingConfirmed
	booking.PaymentID = &paymentRef
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, apperror.Internal(err)
	}
	s.afterStatusChange(booking, previous)
	return booking, nil
}

// ExpireStalePending cancels pending bookings scheduled before cutoff.
func (s *BookingService) ExpireStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.bookings.ListByStatusScheduledIn(ctx, models.BookingPending, time.Time{}, cutoff)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range stale {
		if _, err := s.cancel(ctx, &stale[i]); err != nil {
			loggers.Log.WithError(err).WithField("booking_id", stale[i].ID).Error("🔥 Failed to expire pending booking")
			continue
		}
		expired++
	}
	return expired, nil
}

// SendReminders emails both parties of every confirmed booking starting within [from, to).
func (s *BookingService) SendReminders(ctx context.Context, from, to time.Time) (int, error) {
	upcoming, err := s.bookings.ListByStatusScheduledIn(ctx, models.BookingConfirmed, from, to)
	if err != nil {
		return 0, err
	}
	for i := range upcoming {
		b := &upcoming[i]
		s.notifier.Dispatch(s.templates.BookingReminder(b, &b.User, &b.Mentor))
		s.notifier.Dispatch(s.templates.BookingReminder(b, &b.Mentor, &b.User))
	}
	return len(upcoming), nil
}

func (s *BookingService) afterStatusChange(b *models.Booking, previous models.BookingStatus) {
	if b.Status == previous {
		s.publish(websocket.EventBookingUpdated, b)
		return
	}
	switch b.Status {
	case models.BookingConfirmed:
		s.notifier.Dispatch(s.templates.BookingConfirmed(b, &b.User, &b.Mentor))
		s.notifier.Dispatch(s.templates.BookingConfirmed(b, &b.Mentor, &b.User))
		s.publish(websocket.EventBookingConfirmed, b)
	case models.BookingCancelled:
		s.notifier.Dispatch(s.templates.BookingCancelled(b, &b.User, &b.Mentor))
		s.notifier.Dispatch(s.templates.BookingCancelled(b, &b.Mentor, &b.User))
		s.publish(websocket.EventBookingCancelled, b)
	default:
		s.publish(websocket.EventBookingUpdated, b)
	}
}

func (s *BookingService) publish(eventType string, b *models.Booking) {
	s.events.Publish(websocket.Event{Type: eventType, Data: b}, b.UserID, b.MentorID)
}
