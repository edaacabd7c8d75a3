package handlers

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/middleware"
	"github.com/talesoul/talesoul-api/models"
	"github.com/talesoul/talesoul-api/services"
)

type CourseHandler struct {
	courses *services.CourseService
}

func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

type CreateCourseRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Description     *string `json:"description"`
	Price           float64 `json:"price" validate:"gte=0"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gt=0"`
}

type UpdateCourseRequest struct {
	Title           *string  `json:"title" validate:"omitempty,max=255"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	DurationMinutes *int     `json:"duration_minutes" validate:"omitempty,gt=0"`
	IsPublished     *bool    `json:"is_published"`
}

type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

type ProgressRequest struct {
	ProgressPercentage *float64 `json:"progress_percentage" validate:"required"`
}

func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	course, err := h.courses.Create(c.UserContext(), middleware.CurrentUser(c), services.CourseInput{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func (h *CourseHandler) List(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.UserContext(), middleware.CurrentUser(c), c.QueryBool("published_only", true), pageQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

func (h *CourseHandler) MyCourses(c *fiber.Ctx) error {
	courses, err := h.courses.MyCourses(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

func (h *CourseHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	course, err := h.courses.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(course)
}

func (h *CourseHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	course, err := h.courses.Update(c.UserContext(), middleware.CurrentUser(c), id, services.CourseUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsPublished:     req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(course)
}

func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.courses.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CourseHandler) UploadVideo(c *fiber.Ctx) error {
	return h.upload(c, h.courses.UploadVideo)
}

func (h *CourseHandler) UploadThumbnail(c *fiber.Ctx) error {
	return h.upload(c, h.courses.UploadThumbnail)
}

func (h *CourseHandler) upload(c *fiber.Ctx, store func(ctx context.Context, actor *models.User, id uint, r io.Reader, filename, contentType string) (*models.Course, error)) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer file.Close()

	course, err := store(c.UserContext(), middleware.CurrentUser(c), id, file, file.Filename, file.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(course)
}

func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	enrollment, err := h.courses.Enroll(c.UserContext(), middleware.CurrentUser(c), req.CourseID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

func (h *CourseHandler) MyEnrollments(c *fiber.Ctx) error {
	enrollments, err := h.courses.MyEnrollments(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(enrollments)
}

func (h *CourseHandler) UpdateProgress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req ProgressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	enrollment, err := h.courses.UpdateProgress(c.UserContext(), middleware.CurrentUser(c), id, *req.ProgressPercentage)
	if err != nil {
		return err
	}
	return c.JSON(enrollment)
}
