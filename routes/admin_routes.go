package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/middleware"
)

func AdminRoutes(api fiber.Router, d *Deps) {
	admin := api.Group("/admin", d.protected(), middleware.AdminRequired())

	admin.Get("/pending-mentors", d.Admin.PendingMentors)
	admin.Post("/approve-mentor", d.Admin.DecideMentor)
	admin.Get("/mentors", d.Admin.Mentors)

	users := admin.Group("/users")
	users.Get("", d.Admin.Users)
	users.Get("/:id", d.Admin.User)
	users.Patch("/:id/deactivate", d.Admin.Deactivate)
	users.Patch("/:id/activate", d.Admin.Activate)
	users.Patch("/:id/role", d.Admin.ChangeRole)

	admin.Get("/stats", d.Admin.Stats)
	admin.Get("/bookings", d.Admin.Bookings)
	admin.Get("/courses", d.Admin.Courses)
	admin.Delete("/courses/:id", d.Admin.DeleteCourse)
}
