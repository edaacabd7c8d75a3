package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	AllowedOrigins string
	FrontendURL    string

	DatabaseURL string

	SecretKey      string
	Algorithm      string
	AccessTokenTTL time.Duration

	AdminEmail    string
	AdminPassword string
	AdminFullName string

	RedisURL       string
	AuthRateLimit  int
	AuthRateWindow time.Duration

	MeiliHost   string
	MeiliAPIKey string

	StorageDriver    string
	CloudinaryURL    string
	CloudinaryFolder string
	SpacesKey        string
	SpacesSecret     string
	SpacesEndpoint   string
	SpacesRegion     string
	SpacesBucket     string
	SpacesCDNURL     string

	PaymentProvider    string
	PaymentCurrency    string
	StripeSecretKey    string
	PayPalBaseURL      string
	PayPalClientID     string
	PayPalClientSecret string

	BrevoAPIKey     string
	BrevoBaseURL    string
	EmailSender     string
	EmailSenderName string

	CertificatesEnabled bool
	BookingPendingGrace time.Duration
}

// Load reads .env when present and builds the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:        getEnv("APP_NAME", "TaleSoul API"),
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SecretKey:      os.Getenv("SECRET_KEY"),
		Algorithm:      getEnv("ALGORITHM", "HS256"),
		AccessTokenTTL: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminFullName: getEnv("ADMIN_FULL_NAME", "Administrator"),

		RedisURL:       os.Getenv("REDIS_URL"),
		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", time.Minute),

		MeiliHost:   os.Getenv("MEILI_HOST"),
		MeiliAPIKey: os.Getenv("MEILI_API_KEY"),

		StorageDriver:    getEnv("STORAGE_DRIVER", "cloudinary"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "talesoul"),
		SpacesKey:        os.Getenv("SPACES_KEY"),
		SpacesSecret:     os.Getenv("SPACES_SECRET"),
		SpacesEndpoint:   os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:     getEnv("SPACES_REGION", "nyc3"),
		SpacesBucket:     os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:     os.Getenv("SPACES_CDN_URL"),

		PaymentProvider:    getEnv("PAYMENT_PROVIDER", "stripe"),
		PaymentCurrency:    getEnv("PAYMENT_CURRENCY", "usd"),
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),
		PayPalBaseURL:      getEnv("PAYPAL_API_BASE_URL", "https://api-m.sandbox.paypal.com"),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),

		BrevoAPIKey:     os.Getenv("BREVO_API_KEY"),
		BrevoBaseURL:    getEnv("BREVO_API_BASE_URL", "https://api.brevo.com"),
		EmailSender:     os.Getenv("EMAIL_SENDER"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "TaleSoul"),

		CertificatesEnabled: getEnvBool("CERTIFICATES_ENABLED", false),
		BookingPendingGrace: getEnvDuration("BOOKING_PENDING_GRACE", time.Hour),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
