package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/models"
	"github.com/google/uuid"
)

var (
	ErrUnknownPlan        = errors.New("unknown subscription plan")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrGatewayUnsupported = errors.New("payment gateway is not supported yet")
)

const mockApprovedSuffix = "4242"

type PaymentConfigStore interface {
	GetPaymentConfig() (*models.PaymentConfig, error)
	SetPaymentConfig(config *models.PaymentConfig) error
	ResetPaymentConfig() error
}

type SubscriptionStore interface {
	Create(sub *models.Subscription) error
	GetByUserID(userID int64) ([]*models.Subscription, error)
}

type PaymentService struct {
	configs   PaymentConfigStore
	subs      SubscriptionStore
	mockDelay time.Duration
	newID     func() string
}

func NewPaymentService(configs PaymentConfigStore, subs SubscriptionStore, mockDelay time.Duration) *PaymentService {
	return &PaymentService{
		configs:   configs,
		subs:      subs,
		mockDelay: mockDelay,
		newID:     func() string { return uuid.NewString() },
	}
}

func SubscriptionPrice(plan models.Plan) (float64, error) {
	switch plan {
	case models.PlanBasic:
		return 4.99, nil
	case models.PlanFamily:
		return 9.99, nil
	case models.PlanPremium:
		return 14.99, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
}

// ParsePlan accepts plan names in any letter case.
func ParsePlan(s string) (models.Plan, error) {
	for _, p := range []models.Plan{models.PlanBasic, models.PlanFamily, models.PlanPremium} {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
}

// ProcessPayment charges details through the configured gateway. A declined
// card is a result with Success false, not an error.
func (s *PaymentService) ProcessPayment(ctx context.Context, config *models.PaymentConfig, details models.PaymentDetails) (*models.PaymentResult, error) {
	switch g := config.Gateway.(type) {
	case models.MockGateway:
		return s.processMock(ctx, details)
	case models.StripeGateway, models.PayPalGateway:
		if err := g.Validate(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrGatewayUnsupported, g.Type())
	default:
		return nil, fmt.Errorf("%w: unknown gateway %T", models.ErrGatewayMisconfigured, config.Gateway)
	}
}

func (s *PaymentService) processMock(ctx context.Context, details models.PaymentDetails) (*models.PaymentResult, error) {
	if s.mockDelay > 0 {
		timer := time.NewTimer(s.mockDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if !strings.HasSuffix(normalizeCardNumber(details.CardNumber), mockApprovedSuffix) {
		return &models.PaymentResult{Success: false, Error: "Invalid card number or payment declined"}, nil
	}
	return &models.PaymentResult{Success: true, TransactionID: "tx_" + s.newID()}, nil
}

func normalizeCardNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}

// Subscribe charges the plan price and records the subscription.
func (s *PaymentService) Subscribe(ctx context.Context, userID int64, plan models.Plan, details models.PaymentDetails) (*models.Subscription, error) {
	price, err := SubscriptionPrice(plan)
	if err != nil {
		return nil, err
	}
	config, err := s.configs.GetPaymentConfig()
	if err != nil {
		return nil, fmt.Errorf("load payment config: %w", err)
	}

	details.Plan = plan
	details.Amount = price
	result, err := s.ProcessPayment(ctx, config, details)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		log.Printf("[PAYMENT] Declined for user %d plan %s: %s", userID, plan, result.Error)
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, result.Error)
	}

	sub := &models.Subscription{
		UserID:        userID,
		Plan:          plan,
		Amount:        price,
		Currency:      config.Currency,
		TransactionID: result.TransactionID,
	}
	if err := s.subs.Create(sub); err != nil {
		return nil, fmt.Errorf("save subscription %s: %w", result.TransactionID, err)
	}
	log.Printf("[PAYMENT] User %d subscribed to %s (%s)", userID, plan, result.TransactionID)
	return sub, nil
}

// CurrentSubscription returns the newest subscription of userID, or nil when
// there is none.
func (s *PaymentService) CurrentSubscription(userID int64) (*models.Subscription, error) {
	subs, err := s.subs.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions for user %d: %w", userID, err)
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return subs[0], nil
}

func (s *PaymentService) GatewayConfig() (*models.PaymentConfig, error) {
	return s.configs.GetPaymentConfig()
}

// UpdateGateway swaps the gateway and keeps the rest of the stored config.
func (s *PaymentService) UpdateGateway(gateway models.GatewayConfig) (*models.PaymentConfig, error) {
	config, err := s.configs.GetPaymentConfig()
	if err != nil {
		return nil, err
	}
	config.Gateway = gateway
	if err := s.configs.SetPaymentConfig(config); err != nil {
		return nil, err
	}
	log.Printf("[PAYMENT] Gateway switched to %s", gateway.Type())
	return config, nil
}

func (s *PaymentService) ResetGateway() (*models.PaymentConfig, error) {
	if err := s.configs.ResetPaymentConfig(); err != nil {
		return nil, err
	}
	return s.configs.GetPaymentConfig()
}

func FormatPaymentConfig(config *models.PaymentConfig) string {
	var sb strings.Builder
	sb.WriteString(FormatBold("Payment gateway") + "\n")
	sb.WriteString(fmt.Sprintf("Type: %s\n", config.Gateway.Type()))
	sb.WriteString(fmt.Sprintf("Environment: %s\n", config.Environment))
	sb.WriteString(fmt.Sprintf("Currency: %s\n", config.Currency))
	if len(config.SupportedCards) > 0 {
		sb.WriteString(fmt.Sprintf("Cards: %s\n", strings.Join(config.SupportedCards, ", ")))
	}
	if config.WebhookURL != "" {
		sb.WriteString(fmt.Sprintf("Webhook: %s\n", config.WebhookURL))
	}
	return sb.String()
}
