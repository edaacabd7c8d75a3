package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/middleware"
)

func AuthRoutes(api fiber.Router, d *Deps) {
	limit := func(name string) fiber.Handler {
		return middleware.RateLimit(d.Redis, name, d.Config.AuthRateLimit, d.Config.AuthRateWindow)
	}

	auth := api.Group("/auth")
	auth.Post("/register", limit("register"), d.Auth.Register)
	auth.Post("/login", limit("login"), d.Auth.Login)

	auth.Get("/me", d.protected(), d.Auth.Me)
	auth.Post("/mentor/apply", d.protected(), d.Auth.ApplyAsMentor)
	auth.Get("/mentor/profile", d.protected(), d.Auth.MentorProfile)
	auth.Patch("/mentor/profile", d.protected(), d.Auth.UpdateMentorProfile)
	auth.Post("/upload-profile-picture", d.protected(), d.Auth.UploadProfilePicture)
}
