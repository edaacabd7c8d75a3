package routes

import "github.com/gofiber/fiber/v2"

func BookingRoutes(api fiber.Router, d *Deps) {
	bookings := api.Group("/bookings")

	bookings.Get("/mentors", d.Bookings.ListMentors)
	bookings.Get("/mentors/:id", d.Bookings.GetMentor)
	bookings.Get("/availability/:mentorProfileId", d.Bookings.ListSlots)
	bookings.Post("/availability", d.protected(), d.Bookings.CreateSlot)
	bookings.Delete("/availability/:id", d.protected(), d.Bookings.DeleteSlot)

	bookings.Post("/book", d.protected(), d.Bookings.Create)
	bookings.Get("/my-bookings", d.protected(), d.Bookings.MyBookings)
	bookings.Get("/mentor-bookings", d.protected(), d.Bookings.MentorBookings)
	bookings.Get("/:id", d.protected(), d.Bookings.Get)
	bookings.Patch("/:id", d.protected(), d.Bookings.Update)
	bookings.Delete("/:id", d.protected(), d.Bookings.Cancel)
}
