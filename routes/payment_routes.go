package routes

import "github.com/gofiber/fiber/v2"

func PaymentRoutes(api fiber.Router, d *Deps) {
	payments := api.Group("/payments", d.protected())
	payments.Post("/create-payment-intent", d.Payments.CreateIntent)
	payments.Post("/confirm-payment", d.Payments.Confirm)
}
