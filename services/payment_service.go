package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/notifications"
	"github.com/talesoul/talesoul-api/payments"
	"github.com/talesoul/talesoul-api/repository"
)

// PaymentService creates processor intents and reconciles confirmed payments
// with bookings and course enrollments.
type PaymentService struct {
	processor   payments.Processor
	payments    repository.PaymentRepository
	bookings    *BookingService
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	notifier    Notifier
	templates   *notifications.Templates
	currency    string
}

func NewPaymentService(
	processor payments.Processor,
	paymentRepo repository.PaymentRepository,
	bookings *BookingService,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	notifier Notifier,
	templates *notifications.Templates,
	currency string,
) *PaymentService {
	return &PaymentService{
		processor:   processor,
		payments:    paymentRepo,
		bookings:    bookings,
		courses:     courses,
		enrollments: enrollments,
		notifier:    notifier,
		templates:   templates,
		currency:    strings.ToLower(currency),
	}
}

// PaymentTarget names what a payment is for. Exactly one field must be set.
type PaymentTarget struct {
	BookingID *uint
	CourseID  *uint
}

func (t PaymentTarget) validate() error {
	if (t.BookingID == nil) == (t.CourseID == nil) {
		return apperror.BadRequest("must provide either booking_id or course_id")
	}
	return nil
}

type IntentResult struct {
	ClientSecret    string  `json:"client_secret"`
	PaymentIntentID string  `json:"payment_intent_id"`
	Amount          float64 `json:"amount"`
}

type ConfirmResult struct {
	Message    string                   `json:"message"`
	Detail     string                   `json:"detail"`
	Booking    *models.Booking          `json:"booking,omitempty"`
	Enrollment *models.CourseEnrollment `json:"enrollment,omitempty"`
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (s *PaymentService) CreateIntent(ctx context.Context, actor *models.User, target PaymentTarget) (*IntentResult, error) {
	if err := target.validate(); err != nil {
		return nil, err
	}

	req := payments.IntentRequest{
		Currency: s.currency,
		Metadata: map[string]string{"user_id": idString(actor.ID)},
	}
	payment := &models.Payment{
		UserID:   actor.ID,
		Provider: s.processor.Name(),
		Currency: s.currency,
		Status:   models.PaymentPending,
	}

	if target.BookingID != nil {
		booking, err := s.bookings.load(ctx, *target.BookingID)
		if err != nil {
			return nil, err
		}
		if err := auth.Authorize(actor, auth.ActionBookingPay, auth.BookingRelation(actor.ID, booking)); err != nil {
			return nil, hideForbidden(err, "booking not found")
		}
		if booking.Status != models.BookingPending {
			return nil, apperror.InvalidState("booking is not awaiting payment")
		}
		payment.Amount = booking.Price
		payment.BookingID = &booking.ID
		req.Description = fmt.Sprintf("Booking #%d - Session with mentor", booking.ID)
		req.Metadata["booking_id"] = idString(booking.ID)
	} else {
		course, err := s.courses.FindByID(ctx, *target.CourseID)
		if err != nil {
			return nil, lookupErr(err, "course not found")
		}
		if !course.IsPublished {
			return nil, apperror.NotFound("course not found")
		}
		if _, err := s.enrollments.Find(ctx, actor.ID, course.ID); err == nil {
			return nil, apperror.Conflict("already enrolled in this course")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		payment.Amount = course.Price
		payment.CourseID = &course.ID
		req.Description = "Course: " + course.Title
		req.Metadata["course_id"] = idString(course.ID)
	}

	req.AmountMinor = payments.ToMinorUnits(payment.Amount)
	if req.AmountMinor <= 0 {
		return nil, apperror.BadRequest("nothing to pay for a free item")
	}

	intent, err := s.processor.CreateIntent(ctx, req)
	if err != nil {
		loggers.Log.WithError(err).WithField("provider", s.processor.Name()).Error("🔥 Failed to create payment intent")
		return nil, apperror.PaymentError(err)
	}

	payment.ProviderIntentID = intent.ID
	payment.AmountMinor = req.AmountMinor
	payment.Metadata = make(map[string]interface{}, len(req.Metadata))
	for k, v := range req.Metadata {
		payment.Metadata[k] = v
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperror.Internal(err)
	}

	return &IntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          payment.Amount,
	}, nil
}

// Confirm checks the intent with the processor and advances the target. Only intents recorded
// by CreateIntent for the same account and target are accepted. A payment that has not
// succeeded leaves the booking or enrollment untouched.
func (s *PaymentService) Confirm(ctx context.Context, actor *models.User, intentID string, target PaymentTarget) (*ConfirmResult, error) {
	if err := target.validate(); err != nil {
		return nil, err
	}
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, apperror.BadRequest("payment_intent_id is required")
	}

	payment, err := s.payments.FindByIntentID(ctx, intentID)
	if err != nil {
		return nil, lookupErr(err, "payment not found")
	}
	if err := matchRecord(payment, actor, target); err != nil {
		return nil, err
	}

	result := &ConfirmResult{
		Message: "Payment confirmed successfully",
		Detail:  "Payment ID: " + intentID,
	}

	if payment.Status == models.PaymentSucceeded {
		return s.replay(ctx, actor, intentID, target, result)
	}

	intent, err := s.processor.RetrieveIntent(ctx, intentID)
	if err != nil {
		loggers.Log.WithError(err).WithField("payment_intent_id", intentID).Error("🔥 Failed to retrieve payment intent")
		return nil, apperror.PaymentError(err)
	}
	if !intent.Succeeded() {
		return nil, apperror.InvalidState("payment not successful")
	}
	if err := matchMetadata(intent.Metadata, actor, target); err != nil {
		return nil, err
	}

	if target.BookingID != nil {
		booking, err := s.bookings.ConfirmViaPayment(ctx, actor, *target.BookingID, intentID)
		if err != nil {
			return nil, err
		}
		result.Booking = booking
	} else {
		enrollment, err := s.enrollPaid(ctx, actor, *target.CourseID, intentID)
		if err != nil {
			return nil, err
		}
		result.Enrollment = enrollment
	}

	if err := s.payments.MarkSucceeded(ctx, intentID); err != nil {
		loggers.Log.WithError(err).WithField("payment_intent_id", intentID).Warn("⚠️ Could not mark local payment record as succeeded")
	}
	return result, nil
}

// replay answers a second confirmation of an already settled payment without changing anything.
func (s *PaymentService) replay(ctx context.Context, actor *models.User, intentID string, target PaymentTarget, result *ConfirmResult) (*ConfirmResult, error) {
	if target.CourseID != nil {
		return nil, apperror.Conflict("already enrolled in this course")
	}
	booking, err := s.bookings.load(ctx, *target.BookingID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionBookingPay, auth.BookingRelation(actor.ID, booking)); err != nil {
		return nil, hideForbidden(err, "booking not found")
	}
	if booking.PaymentID == nil || *booking.PaymentID != intentID {
		return nil, apperror.InvalidState("payment was already used")
	}
	result.Booking = booking
	return result, nil
}

func (s *PaymentService) enrollPaid(ctx context.Context, actor *models.User, courseID uint, intentID string) (*models.CourseEnrollment, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, lookupErr(err, "course not found")
	}
	enrollment := &models.CourseEnrollment{
		UserID:    actor.ID,
		CourseID:  course.ID,
		PaymentID: &intentID,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("already enrolled in this course")
		}
		return nil, apperror.Internal(err)
	}
	s.notifier.Dispatch(s.templates.CourseEnrollment(course, actor))
	return enrollment, nil
}

// matchRecord ties the local payment record to the caller and the requested target.
func matchRecord(p *models.Payment, actor *models.User, target PaymentTarget) error {
	if p.UserID != actor.ID {
		return apperror.Forbidden("payment belongs to another account")
	}
	if !sameID(p.BookingID, target.BookingID) {
		return apperror.BadRequest("payment does not match the requested booking")
	}
	if !sameID(p.CourseID, target.CourseID) {
		return apperror.BadRequest("payment does not match the requested course")
	}
	return nil
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// matchMetadata rejects intents created for another account or another target.
func matchMetadata(md map[string]string, actor *models.User, target PaymentTarget) error {
	if v, ok := md["user_id"]; ok && v != idString(actor.ID) {
		return apperror.Forbidden("payment belongs to another account")
	}
	if v, ok := md["booking_id"]; ok && (target.BookingID == nil || v != idString(*target.BookingID)) {
		return apperror.BadRequest("payment does not match the requested booking")
	}
	if v, ok := md["course_id"]; ok && (target.CourseID == nil || v != idString(*target.CourseID)) {
		return apperror.BadRequest("payment does not match the requested course")
	}
	return nil
}
