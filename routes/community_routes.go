package routes

import "github.com/gofiber/fiber/v2"

func CommunityRoutes(api fiber.Router, d *Deps) {
	community := api.Group("/community", d.protected())

	community.Post("/groups", d.Community.CreateGroup)
	community.Get("/groups", d.Community.ListGroups)
	community.Get("/groups/:id", d.Community.GetGroup)

	community.Post("/posts", d.Community.CreatePost)
	community.Get("/posts", d.Community.ListPosts)
	community.Get("/posts/:id", d.Community.GetPost)
	community.Patch("/posts/:id", d.Community.UpdatePost)
	community.Delete("/posts/:id", d.Community.DeletePost)
	community.Get("/posts/:id/replies", d.Community.ListReplies)

	community.Post("/replies", d.Community.CreateReply)
	community.Get("/replies/:id", d.Community.GetReply)
	community.Delete("/replies/:id", d.Community.DeleteReply)
}
