package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/talesoul/talesoul-api/auth"
	config "github.com/talesoul/talesoul-api/configs"
	"github.com/talesoul/talesoul-api/database"
	"github.com/talesoul/talesoul-api/handlers"
	"github.com/talesoul/talesoul-api/jobs"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/notifications"
	"github.com/talesoul/talesoul-api/payments"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/routes"
	"github.com/talesoul/talesoul-api/search"
	"github.com/talesoul/talesoul-api/services"
	"github.com/talesoul/talesoul-api/storage"
	"github.com/talesoul/talesoul-api/websocket"
)

func main() {
	cfg, err := config.Load()
	loggers.Init(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		loggers.Log.Fatalf("🔥 Invalid configuration: %v", err)
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		loggers.Log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		loggers.Log.Fatal(err)
	}
	if err := database.SeedAdmin(db, cfg); err != nil {
		loggers.Log.Fatal(err)
	}

	users := repository.NewUserRepository(db)
	mentors := repository.NewMentorRepository(db)
	availability := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	files, err := storage.New(cfg)
	if err != nil {
		loggers.Log.Fatalf("🔥 Failed to initialize file storage: %v", err)
	}

	processor, err := payments.NewProcessor(cfg)
	if err != nil {
		loggers.Log.WithError(err).Warn("⚠️ Payments disabled")
		processor = payments.Disabled{}
	}

	var mailer notifications.Mailer
	if m := notifications.NewBrevoMailer(cfg); m != nil {
		mailer = m
	} else {
		loggers.Log.Warn("⚠️ BREVO_API_KEY/EMAIL_SENDER not set, emails will be skipped")
	}
	dispatcher := notifications.NewDispatcher(mailer)
	templates := notifications.NewTemplates(cfg.FrontendURL)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	index := search.NewMeiliIndex(cfg.MeiliHost, cfg.MeiliAPIKey)
	search.Setup(index)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			loggers.Log.Fatalf("🔥 Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		loggers.Log.Fatal(err)
	}
	authorizer := auth.NewAuthorizer(tokens, users)

	var certificates *services.CertificateService
	var issuer services.CertificateIssuer
	if cfg.CertificatesEnabled {
		certificates = services.NewCertificateService(enrollments, files, dispatcher, templates, nil)
		issuer = certificates
	}

	authService := services.NewAuthService(users, mentors, tokens, files)
	mentorService := services.NewMentorService(mentors, availability)
	bookingService := services.NewBookingService(bookingRepo, users, mentors, dispatcher, hub, templates)
	paymentService := services.NewPaymentService(processor, paymentRepo, bookingService, courseRepo, enrollments, dispatcher, templates, cfg.PaymentCurrency)
	courseService := services.NewCourseService(courseRepo, enrollments, files, index, issuer, dispatcher, templates)
	communityService := services.NewCommunityService(communityRepo, index, hub)
	adminService := services.NewAdminService(users, mentors, bookingRepo, courseRepo, paymentRepo, dispatcher, templates)

	scheduler, err := jobs.Schedule(bookingService, cfg.BookingPendingGrace)
	if err != nil {
		loggers.Log.Fatalf("🔥 Failed to schedule jobs: %v", err)
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:       cfg.AppName,
		CaseSensitive: true,
		StrictRouting: true,
		BodyLimit:     100 * 1024 * 1024,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to " + cfg.AppName,
		})
	})

	routes.Setup(app, &routes.Deps{
		Config:     cfg,
		Authorizer: authorizer,
		Redis:      rdb,
		Auth:       handlers.NewAuthHandler(authService),
		Bookings:   handlers.NewBookingHandler(mentorService, bookingService),
		Payments:   handlers.NewPaymentHandler(paymentService),
		Courses:    handlers.NewCourseHandler(courseService),
		Community:  handlers.NewCommunityHandler(communityService),
		Admin:      handlers.NewAdminHandler(adminService, courseService),
		Search:     handlers.NewSearchHandler(index),
		Realtime:   handlers.NewRealtimeHandler(hub, authorizer),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		loggers.Log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			loggers.Log.WithError(err).Error("🔥 Server shutdown failed")
		}
	}()

	loggers.Log.Infof("✅ Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		loggers.Log.Fatalf("🔥 Server failed to start: %v", err)
	}

	<-scheduler.Stop().Done()
	stop()
	if certificates != nil {
		certificates.Wait()
	}
	dispatcher.Wait()
	loggers.Log.Info("Server stopped")
}
