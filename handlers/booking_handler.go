package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/middleware"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/services"
)

// BookingHandler serves the mentor directory, availability and session bookings.
type BookingHandler struct {
	mentors  *services.MentorService
	bookings *services.BookingService
}

func NewBookingHandler(mentors *services.MentorService, bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{mentors: mentors, bookings: bookings}
}

type SlotRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type CreateBookingRequest struct {
	MentorID        uint      `json:"mentor_id" validate:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0,lte=480"`
	Notes           *string   `json:"notes"`
}

type UpdateBookingRequest struct {
	Status      *string `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	MeetingLink *string `json:"meeting_link" validate:"omitempty,url"`
	Notes       *string `json:"notes"`
}

func (h *BookingHandler) ListMentors(c *fiber.Ctx) error {
	mentors, err := h.mentors.ListApproved(c.UserContext(), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(mentors)
}

func (h *BookingHandler) GetMentor(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	mentor, err := h.mentors.GetApproved(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(mentor)
}

func (h *BookingHandler) CreateSlot(c *fiber.Ctx) error {
	var req SlotRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	slot, err := h.mentors.CreateSlot(c.UserContext(), middleware.CurrentUser(c), services.SlotInput{
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

func (h *BookingHandler) ListSlots(c *fiber.Ctx) error {
	id, err := paramID(c, "mentorProfileId")
	if err != nil {
		return err
	}
	slots, err := h.mentors.ListSlots(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(slots)
}

func (h *BookingHandler) DeleteSlot(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.mentors.DeleteSlot(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	booking, err := h.bookings.Create(c.UserContext(), middleware.CurrentUser(c), services.CreateBookingInput{
		MentorID:        req.MentorID,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *BookingHandler) MyBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListMine(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) MentorBookings(c *fiber.Ctx) error {
	bookings, err := h.bookings.ListAsMentor(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

func (h *BookingHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in := services.UpdateBookingInput{MeetingLink: req.MeetingLink, Notes: req.Notes}
	if req.Status != nil {
		status := models.BookingStatus(*req.Status)
		in.Status = &status
	}
	booking, err := h.bookings.Update(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(booking)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Cancel(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Booking cancelled", "booking": booking})
}
