package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/middleware"
	"github.com/talesoul/talesoul-api/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest accepts a JSON body or an OAuth2-style form where the email is sent as username.
type LoginRequest struct {
	Email    string `json:"email" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type MentorApplicationRequest struct {
	Bio               string   `json:"bio" validate:"required"`
	Expertise         string   `json:"expertise" validate:"required"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0"`
	HourlyRate        *float64 `json:"hourly_rate" validate:"required,gte=0"`
	LinkedInURL       *string  `json:"linkedin_url" validate:"omitempty,url"`
	GitHubURL         *string  `json:"github_url" validate:"omitempty,url"`
}

type MentorProfileUpdateRequest struct {
	Bio               *string  `json:"bio"`
	Expertise         *string  `json:"expertise"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,gte=0"`
	HourlyRate        *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	LinkedInURL       *string  `json:"linkedin_url" validate:"omitempty,url"`
	GitHubURL         *string  `json:"github_url" validate:"omitempty,url"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.Register(c.UserContext(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(token)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

func (h *AuthHandler) ApplyAsMentor(c *fiber.Ctx) error {
	var req MentorApplicationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.auth.ApplyAsMentor(c.UserContext(), middleware.CurrentUser(c), services.MentorApplication{
		Bio:               req.Bio,
		Expertise:         req.Expertise,
		YearsOfExperience: req.YearsOfExperience,
		HourlyRate:        *req.HourlyRate,
		LinkedInURL:       req.LinkedInURL,
		GitHubURL:         req.GitHubURL,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (h *AuthHandler) MentorProfile(c *fiber.Ctx) error {
	profile, err := h.auth.MentorProfile(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *AuthHandler) UpdateMentorProfile(c *fiber.Ctx) error {
	var req MentorProfileUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	profile, err := h.auth.UpdateMentorProfile(c.UserContext(), middleware.CurrentUser(c), services.MentorProfileUpdate{
		Bio:               req.Bio,
		Expertise:         req.Expertise,
		YearsOfExperience: req.YearsOfExperience,
		HourlyRate:        req.HourlyRate,
		LinkedInURL:       req.LinkedInURL,
		GitHubURL:         req.GitHubURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *AuthHandler) UploadProfilePicture(c *fiber.Ctx) error {
	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	defer file.Close()

	user, err := h.auth.UploadProfilePicture(c.UserContext(), middleware.CurrentUser(c), file, file.Filename, file.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
