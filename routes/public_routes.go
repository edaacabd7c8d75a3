package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talesoul/talesoul-api/handlers"
)

func PublicRoutes(api fiber.Router, d *Deps) {
	api.Get("/health", handlers.Health(d.Config.AppName))

	search := api.Group("/search")
	search.Get("/courses", d.Search.Courses)
	search.Get("/posts", d.Search.Posts)
}
