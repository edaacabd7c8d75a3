package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	config "github.com/talesoul/talesoul-api/configs"
)

const (
	StatusSucceeded             = "succeeded"
	StatusProcessing            = "processing"
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusRequiresCapture       = "requires_capture"
	StatusCanceled              = "canceled"
)

type IntentRequest struct {
	AmountMinor int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Intent is a processor-side pending charge, normalized across providers.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountMinor  int64
	Currency     string
	Metadata     map[string]string
}

func (i *Intent) Succeeded() bool {
	return i.Status == StatusSucceeded
}

type Processor interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
}

func NewProcessor(cfg *config.Config) (Processor, error) {
	switch strings.ToLower(cfg.PaymentProvider) {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required for the stripe provider")
		}
		return NewStripeProcessor(cfg.StripeSecretKey, nil), nil
	case "paypal":
		if cfg.PayPalClientID == "" || cfg.PayPalClientSecret == "" {
			return nil, fmt.Errorf("PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET are required for the paypal provider")
		}
		return NewPayPalProcessor(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalClientSecret, &http.Client{Timeout: 15 * time.Second}), nil
	}
	return nil, fmt.Errorf("unknown payment provider %q", cfg.PaymentProvider)
}

var ErrNotConfigured = errors.New("payment processor is not configured")

// Disabled fails every call. It stands in when no provider credentials are set.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) CreateIntent(context.Context, IntentRequest) (*Intent, error) {
	return nil, ErrNotConfigured
}

func (Disabled) RetrieveIntent(context.Context, string) (*Intent, error) {
	return nil, ErrNotConfigured
}

// ToMinorUnits converts a decimal amount to the smallest currency unit.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
