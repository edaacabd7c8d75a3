package routes

import "github.com/gofiber/fiber/v2"

// RealtimeRoutes mounts the websocket endpoint at /ws. Clients pass their access token as ?token=.
func RealtimeRoutes(app *fiber.App, d *Deps) {
	app.Use("/ws", d.Realtime.Upgrade)
	app.Get("/ws", d.Realtime.Serve())
}
