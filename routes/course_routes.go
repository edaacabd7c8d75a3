package routes

import "github.com/gofiber/fiber/v2"

func CourseRoutes(api fiber.Router, d *Deps) {
	courses := api.Group("/courses")

	courses.Get("", d.optional(), d.Courses.List)
	courses.Post("", d.protected(), d.Courses.Create)
	courses.Get("/my-courses", d.protected(), d.Courses.MyCourses)
	courses.Get("/my-enrollments", d.protected(), d.Courses.MyEnrollments)
	courses.Post("/enroll", d.protected(), d.Courses.Enroll)
	courses.Patch("/enrollments/:id/progress", d.protected(), d.Courses.UpdateProgress)

	courses.Get("/:id", d.optional(), d.Courses.Get)
	courses.Patch("/:id", d.protected(), d.Courses.Update)
	courses.Delete("/:id", d.protected(), d.Courses.Delete)
	courses.Post("/:id/upload-video", d.protected(), d.Courses.UploadVideo)
	courses.Post("/:id/upload-thumbnail", d.protected(), d.Courses.UploadThumbnail)
}
