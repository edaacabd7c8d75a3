package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/auth"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/repository"
)

var timeOfDay = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

type MentorService struct {
	mentors      repository.MentorRepository
	availability repository.AvailabilityRepository
}

func NewMentorService(mentors repository.MentorRepository, availability repository.AvailabilityRepository) *MentorService {
	return &MentorService{mentors: mentors, availability: availability}
}

type SlotInput struct {
	DayOfWeek int
	StartTime string
	EndTime   string
}

func (s *MentorService) ListApproved(ctx context.Context, page repository.Page) ([]models.MentorProfile, error) {
	status := models.MentorApproved
	mentors, err := s.mentors.List(ctx, &status, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return mentors, nil
}

// GetApproved looks a mentor up by account id. Unapproved mentors are not visible.
func (s *MentorService) GetApproved(ctx context.Context, mentorUserID uint) (*models.MentorProfile, error) {
	profile, err := s.mentors.FindByUserID(ctx, mentorUserID)
	if err != nil {
		return nil, lookupErr(err, "mentor not found or not approved")
	}
	if profile.Status != models.MentorApproved {
		return nil, apperror.NotFound("mentor not found or not approved")
	}
	return profile, nil
}

func minutesOf(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

func (in SlotInput) validate() error {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return apperror.BadRequest("day_of_week must be between 0 and 6")
	}
	if !timeOfDay.MatchString(in.StartTime) || !timeOfDay.MatchString(in.EndTime) {
		return apperror.BadRequest("times must use the HH:MM format")
	}
	if minutesOf(in.EndTime) <= minutesOf(in.StartTime) {
		return apperror.BadRequest("end_time must be after start_time")
	}
	return nil
}

func (s *MentorService) CreateSlot(ctx context.Context, actor *models.User, in SlotInput) (*models.AvailabilitySlot, error) {
	if err := auth.Authorize(actor, auth.ActionAvailabilityCreate, auth.RelationNone); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	profile, err := s.mentors.FindByUserID(ctx, actor.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if profile == nil || profile.Status != models.MentorApproved {
		return nil, apperror.Forbidden("only approved mentors can set availability")
	}

	slot := &models.AvailabilitySlot{
		MentorID:    profile.ID,
		DayOfWeek:   in.DayOfWeek,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		IsAvailable: true,
	}
	if err := s.availability.Create(ctx, slot); err != nil {
		return nil, apperror.Internal(err)
	}
	return slot, nil
}

func (s *MentorService) ListSlots(ctx context.Context, mentorProfileID uint) ([]models.AvailabilitySlot, error) {
	if _, err := s.mentors.FindByID(ctx, mentorProfileID); err != nil {
		return nil, lookupErr(err, "mentor not found")
	}
	slots, err := s.availability.ListByMentor(ctx, mentorProfileID, true)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return slots, nil
}

func (s *MentorService) DeleteSlot(ctx context.Context, actor *models.User, slotID uint) error {
	profile, err := s.mentors.FindByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Forbidden("only mentors can delete availability slots")
		}
		return apperror.Internal(err)
	}
	slot, err := s.availability.FindByID(ctx, slotID)
	if err != nil {
		return lookupErr(err, "availability slot not found")
	}
	if err := auth.Authorize(actor, auth.ActionAvailabilityDelete, auth.OwnerRelation(profile.ID, slot.MentorID)); err != nil {
		return err
	}
	if err := s.availability.Delete(ctx, slot); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
