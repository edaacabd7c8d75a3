package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/middleware"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/services"
)

type AdminHandler struct {
	admin   *services.AdminService
	courses *services.CourseService
}

func NewAdminHandler(admin *services.AdminService, courses *services.CourseService) *AdminHandler {
	return &AdminHandler{admin: admin, courses: courses}
}

type MentorDecisionRequest struct {
	MentorID uint  `json:"mentor_id" validate:"required"`
	Approved *bool `json:"approved" validate:"required"`
}

func (h *AdminHandler) PendingMentors(c *fiber.Ctx) error {
	mentors, err := h.admin.PendingMentors(c.UserContext(), middleware.CurrentUser(c), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(mentors)
}

func (h *AdminHandler) Mentors(c *fiber.Ctx) error {
	var status *models.MentorStatus
	if v := c.Query("status"); v != "" {
		s := models.MentorStatus(v)
		status = &s
	}
	mentors, err := h.admin.Mentors(c.UserContext(), middleware.CurrentUser(c), status, pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(mentors)
}

func (h *AdminHandler) DecideMentor(c *fiber.Ctx) error {
	var req MentorDecisionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.admin.DecideMentor(c.UserContext(), middleware.CurrentUser(c), req.MentorID, *req.Approved)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	var role *models.Role
	if v := c.Query("role"); v != "" {
		r := models.Role(v)
		role = &r
	}
	users, err := h.admin.Users(c.UserContext(), middleware.CurrentUser(c), role, pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *AdminHandler) User(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.admin.User(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AdminHandler) Activate(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *AdminHandler) Deactivate(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *AdminHandler) setActive(c *fiber.Ctx, active bool) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.admin.SetActive(c.UserContext(), middleware.CurrentUser(c), id, active)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	newRole := c.Query("new_role")
	if newRole == "" {
		return apperror.BadRequest("new_role is required")
	}
	user, err := h.admin.ChangeRole(c.UserContext(), middleware.CurrentUser(c), id, newRole)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (h *AdminHandler) Bookings(c *fiber.Ctx) error {
	bookings, err := h.admin.Bookings(c.UserContext(), middleware.CurrentUser(c), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(bookings)
}

func (h *AdminHandler) Courses(c *fiber.Ctx) error {
	courses, err := h.admin.Courses(c.UserContext(), middleware.CurrentUser(c), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

func (h *AdminHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.courses.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
