package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/middleware"
	"github.com/talesoul/talesoul-api/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type PaymentIntentRequest struct {
	BookingID *uint `json:"booking_id" validate:"omitempty,gt=0"`
	CourseID  *uint `json:"course_id" validate:"omitempty,gt=0"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
	BookingID       *uint  `json:"booking_id" validate:"omitempty,gt=0"`
	CourseID        *uint  `json:"course_id" validate:"omitempty,gt=0"`
}

func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req PaymentIntentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.payments.CreateIntent(c.UserContext(), middleware.CurrentUser(c), services.PaymentTarget{
		BookingID: req.BookingID,
		CourseID:  req.CourseID,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.payments.Confirm(c.UserContext(), middleware.CurrentUser(c), req.PaymentIntentID, services.PaymentTarget{
		BookingID: req.BookingID,
		CourseID:  req.CourseID,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}
