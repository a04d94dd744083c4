package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/platform/logger"
)

// Subjects published by the payment provider integration.
const (
	SubjectProviderCompleted = "payments.provider.completed"
	SubjectProviderFailed    = "payments.provider.failed"
)

// PaymentOutcome is the provider callback payload.
type PaymentOutcome struct {
	PaymentID        string `json:"payment_id"`
	ListingID        string `json:"listing_id"`
	Receipt          string `json:"receipt,omitempty"`
	ProviderResponse string `json:"provider_response,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// PaymentProcessor applies a provider outcome to the payment/listing pair.
type PaymentProcessor interface {
	CompletePayment(ctx context.Context, paymentID, listingID, receipt, providerResponse string) (*domain.Payment, *domain.Listing, error)
	FailPayment(ctx context.Context, paymentID, listingID, errorMessage, providerResponse string) (*domain.Payment, *domain.Listing, error)
}

// PaymentOutcomeConsumer subscribes to provider outcome events and drives the
// payment workflows.
type PaymentOutcomeConsumer struct {
	conn      *nats.Conn
	processor PaymentProcessor
	logger    *logger.Logger
	subs      []*nats.Subscription
}

func NewPaymentOutcomeConsumer(url string, processor PaymentProcessor, log *logger.Logger, appName string) (*PaymentOutcomeConsumer, error) {
	conn, err := nats.Connect(url, nats.Name(fmt.Sprintf("%s Payment Consumer", appName)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return &PaymentOutcomeConsumer{
		conn:      conn,
		processor: processor,
		logger:    log.Named("PaymentOutcomeConsumer"),
	}, nil
}

// Start subscribes to both outcome subjects. Handlers run on the NATS
// delivery goroutine; rule violations are logged and dropped, they are not
// redelivery candidates.
func (c *PaymentOutcomeConsumer) Start(ctx context.Context) error {
	completedSub, err := c.conn.Subscribe(SubjectProviderCompleted, func(msg *nats.Msg) {
		c.handle(ctx, msg, true)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectProviderCompleted, err)
	}
	c.subs = append(c.subs, completedSub)

	failedSub, err := c.conn.Subscribe(SubjectProviderFailed, func(msg *nats.Msg) {
		c.handle(ctx, msg, false)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectProviderFailed, err)
	}
	c.subs = append(c.subs, failedSub)

	c.logger.Info("subscribed to provider outcome subjects")
	return nil
}

func (c *PaymentOutcomeConsumer) handle(ctx context.Context, msg *nats.Msg, completed bool) {
	var outcome PaymentOutcome
	if err := json.Unmarshal(msg.Data, &outcome); err != nil {
		c.logger.Error("invalid provider outcome payload", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}

	var err error
	if completed {
		_, _, err = c.processor.CompletePayment(ctx, outcome.PaymentID, outcome.ListingID, outcome.Receipt, outcome.ProviderResponse)
	} else {
		_, _, err = c.processor.FailPayment(ctx, outcome.PaymentID, outcome.ListingID, outcome.ErrorMessage, outcome.ProviderResponse)
	}
	if err != nil {
		if domain.IsRuleViolation(err) {
			c.logger.Warn("provider outcome rejected by business rules",
				zap.String("payment_id", outcome.PaymentID),
				zap.String("listing_id", outcome.ListingID),
				zap.Error(err))
			return
		}
		c.logger.Error("failed to apply provider outcome",
			zap.String("payment_id", outcome.PaymentID),
			zap.String("listing_id", outcome.ListingID),
			zap.Error(err))
	}
}

// Close unsubscribes and closes the connection.
func (c *PaymentOutcomeConsumer) Close() {
	for _, sub := range c.subs {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Error("failed to unsubscribe", zap.Error(err))
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		c.conn.Close()
	}
}
