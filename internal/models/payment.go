package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrGatewayMisconfigured = errors.New("payment gateway is misconfigured")

type GatewayType string

const (
	GatewayTypeMock   GatewayType = "mock"
	GatewayTypeStripe GatewayType = "stripe"
	GatewayTypePayPal GatewayType = "paypal"
)

// GatewayConfig is implemented only by MockGateway, StripeGateway and PayPalGateway.
type GatewayConfig interface {
	Type() GatewayType
	Validate() error
	isGateway()
}

type MockGateway struct {
	APIKey string
}

func (MockGateway) Type() GatewayType { return GatewayTypeMock }
func (MockGateway) Validate() error   { return nil }
func (MockGateway) isGateway()        {}

type StripeGateway struct {
	APIKey    string
	SecretKey string
}

func (StripeGateway) Type() GatewayType { return GatewayTypeStripe }
func (StripeGateway) isGateway()        {}

func (g StripeGateway) Validate() error {
	if g.APIKey == "" || g.SecretKey == "" {
		return fmt.Errorf("%w: stripe needs api key and secret key", ErrGatewayMisconfigured)
	}
	return nil
}

type PayPalGateway struct {
	ClientID string
	Secret   string
}

func (PayPalGateway) Type() GatewayType { return GatewayTypePayPal }
func (PayPalGateway) isGateway()        {}

func (g PayPalGateway) Validate() error {
	if g.ClientID == "" || g.Secret == "" {
		return fmt.Errorf("%w: paypal needs client id and secret", ErrGatewayMisconfigured)
	}
	return nil
}

type PaymentEnvironment string

const (
	EnvironmentTest       PaymentEnvironment = "test"
	EnvironmentProduction PaymentEnvironment = "production"
)

type PaymentConfig struct {
	Gateway        GatewayConfig
	Environment    PaymentEnvironment
	Currency       string
	WebhookURL     string
	SupportedCards []string
}

func DefaultPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		Gateway:        MockGateway{APIKey: "mock_api_key"},
		Environment:    EnvironmentTest,
		Currency:       "USD",
		SupportedCards: []string{"visa", "mastercard", "amex"},
	}
}

type paymentConfigRecord struct {
	GatewayType    GatewayType        `json:"gateway_type"`
	APIKey         string             `json:"api_key,omitempty"`
	SecretKey      string             `json:"secret_key,omitempty"`
	ClientID       string             `json:"client_id,omitempty"`
	Secret         string             `json:"secret,omitempty"`
	Environment    PaymentEnvironment `json:"environment"`
	Currency       string             `json:"currency"`
	WebhookURL     string             `json:"webhook_url,omitempty"`
	SupportedCards []string           `json:"supported_cards,omitempty"`
}

func (c *PaymentConfig) ToJSON() (string, error) {
	rec := paymentConfigRecord{
		Environment:    c.Environment,
		Currency:       c.Currency,
		WebhookURL:     c.WebhookURL,
		SupportedCards: c.SupportedCards,
	}
	switch g := c.Gateway.(type) {
	case MockGateway:
		rec.GatewayType = GatewayTypeMock
		rec.APIKey = g.APIKey
	case StripeGateway:
		rec.GatewayType = GatewayTypeStripe
		rec.APIKey = g.APIKey
		rec.SecretKey = g.SecretKey
	case PayPalGateway:
		rec.GatewayType = GatewayTypePayPal
		rec.ClientID = g.ClientID
		rec.Secret = g.Secret
	default:
		return "", fmt.Errorf("%w: unknown gateway %T", ErrGatewayMisconfigured, c.Gateway)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ParsePaymentConfig(data string) (*PaymentConfig, error) {
	var rec paymentConfigRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}

	config := &PaymentConfig{
		Environment:    rec.Environment,
		Currency:       rec.Currency,
		WebhookURL:     rec.WebhookURL,
		SupportedCards: rec.SupportedCards,
	}
	switch rec.GatewayType {
	case GatewayTypeMock:
		config.Gateway = MockGateway{APIKey: rec.APIKey}
	case GatewayTypeStripe:
		config.Gateway = StripeGateway{APIKey: rec.APIKey, SecretKey: rec.SecretKey}
	case GatewayTypePayPal:
		config.Gateway = PayPalGateway{ClientID: rec.ClientID, Secret: rec.Secret}
	default:
		return nil, fmt.Errorf("%w: unknown gateway type %q", ErrGatewayMisconfigured, rec.GatewayType)
	}
	return config, nil
}

type Plan string

const (
	PlanBasic   Plan = "Basic"
	PlanFamily  Plan = "Family"
	PlanPremium Plan = "Premium"
)

type PaymentDetails struct {
	CardName   string
	CardNumber string
	ExpiryDate string
	CVC        string
	Plan       Plan
	Amount     float64
}

type PaymentResult struct {
	Success       bool
	TransactionID string
	Error         string
}

type Subscription struct {
	ID            int64
	UserID        int64
	Plan          Plan
	Amount        float64
	Currency      string
	TransactionID string
	CreatedAt     time.Time
}
