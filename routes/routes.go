package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/talesoul/talesoul-api/auth"
	config "github.com/talesoul/talesoul-api/configs"
	"github.com/talesoul/talesoul-api/handlers"
	"github.com/talesoul/talesoul-api/middleware"
)

// Deps is everything the route table needs. Redis may be nil.
type Deps struct {
	Config     *config.Config
	Authorizer *auth.Authorizer
	Redis      *redis.Client

	Auth      *handlers.AuthHandler
	Bookings  *handlers.BookingHandler
	Payments  *handlers.PaymentHandler
	Courses   *handlers.CourseHandler
	Community *handlers.CommunityHandler
	Admin     *handlers.AdminHandler
	Search    *handlers.SearchHandler
	Realtime  *handlers.RealtimeHandler
}

func Setup(app *fiber.App, d *Deps) {
	api := app.Group("/api/v1")

	PublicRoutes(api, d)
	AuthRoutes(api, d)
	BookingRoutes(api, d)
	PaymentRoutes(api, d)
	CourseRoutes(api, d)
	CommunityRoutes(api, d)
	AdminRoutes(api, d)
	RealtimeRoutes(app, d)
}

func (d *Deps) protected() fiber.Handler {
	return middleware.Protected(d.Authorizer)
}

func (d *Deps) optional() fiber.Handler {
	return middleware.OptionalAuth(d.Authorizer)
}
