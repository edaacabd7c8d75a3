package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/talesoul/talesoul-api/auth"
	config "github.com/talesoul/talesoul-api/configs"
	"github.com/talesoul/talesoul-api/loggers"
	"github.com/talesoul/talesoul-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	loggers.Log.Info("✅ Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.MentorProfile{},
		&models.AvailabilitySlot{},
		&models.Booking{},
		&models.Course{},
		&models.CourseEnrollment{},
		&models.CommunityGroup{},
		&models.CommunityPost{},
		&models.CommunityReply{},
		&models.Payment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	loggers.Log.Info("✅ Database migration successful")
	return nil
}

// SeedAdmin creates the bootstrap administrator when ADMIN_EMAIL and ADMIN_PASSWORD are set.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		loggers.Log.Warn("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	email := auth.NormalizeEmail(cfg.AdminEmail)
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		loggers.Log.Info("Admin user already exists.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		FullName:       cfg.AdminFullName,
		Email:          email,
		HashedPassword: hash,
		Role:           models.RoleAdmin,
		IsActive:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	loggers.Log.Info("✅ Admin user seeded successfully")
	return nil
}
