// Package service is the impure shell around the workflow layer: it loads
// entity snapshots, runs the pure workflows, persists the results and emits
// lifecycle events.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	natsAdapter "github.com/inmuebla/listing-service/internal/adapter/messaging/nats"
	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/listing/usecase"
	"github.com/inmuebla/listing-service/internal/platform/logger"
	"github.com/inmuebla/listing-service/internal/platform/metrics"
)

// EventPublisher emits lifecycle events; failures are logged, never fatal.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// ActivationMailer notifies an owner that their listing went live.
type ActivationMailer interface {
	SendListingActivatedEmail(toEmail, listingTitle string) error
}

// MediaStorage uploads listing media and returns public URLs.
type MediaStorage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// MediaFile is an uploaded file attached to a new listing.
type MediaFile struct {
	Name string
	Data []byte
}

type ListingService struct {
	workflows *usecase.Workflows
	listings  domain.ListingRepository
	payments  domain.PaymentRepository
	users     domain.UserRepository
	publisher EventPublisher
	mailer    ActivationMailer
	media     MediaStorage
	metrics   *metrics.Manager
	logger    *logger.Logger
}

func NewListingService(
	workflows *usecase.Workflows,
	listings domain.ListingRepository,
	payments domain.PaymentRepository,
	users domain.UserRepository,
	publisher EventPublisher,
	mailer ActivationMailer,
	media MediaStorage,
	m *metrics.Manager,
	log *logger.Logger,
) *ListingService {
	return &ListingService{
		workflows: workflows,
		listings:  listings,
		payments:  payments,
		users:     users,
		publisher: publisher,
		mailer:    mailer,
		media:     media,
		metrics:   m,
		logger:    log.Named("ListingService"),
	}
}

// CreateListing uploads media, runs the creation workflow and persists the
// listing with its property as one unit.
func (s *ListingService) CreateListing(ctx context.Context, userID string, property *domain.Property, in usecase.CreateListingInput, media []MediaFile) (*domain.Listing, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, f := range media {
		url, err := s.media.Upload(ctx, f.Name, f.Data)
		if err != nil {
			return nil, err
		}
		in.Photos = append(in.Photos, url)
	}

	if in.ListingID == "" {
		in.ListingID = uuid.New().String()
	}

	listing, err := s.workflows.CreateListing(user, property, in)
	if err != nil {
		s.countRejection("create_listing", err)
		return nil, err
	}

	if err := s.listings.CreateWithProperty(ctx, listing, property); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ListingsCreatedTotal.Inc()
	}

	s.publishEvent(ctx, natsAdapter.SubjectListingCreated, map[string]interface{}{
		"listing_id":  listing.ID,
		"property_id": property.ID,
		"owner_id":    listing.OwnerID,
		"status":      string(listing.Status),
		"created_at":  listing.CreatedAt.Format(time.RFC3339Nano),
	})
	return listing, nil
}

// InitiatePayment creates a listing-fee payment and freezes the listing.
func (s *ListingService) InitiatePayment(ctx context.Context, userID, listingID, provider, method string) (*domain.Payment, *domain.Listing, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}

	payment, updated, err := s.workflows.InitiateListingPayment(user, listing, uuid.New().String(), provider, method)
	if err != nil {
		s.countRejection("initiate_payment", err)
		return nil, nil, err
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, nil, err
	}
	if err := s.listings.Update(ctx, updated); err != nil {
		return nil, nil, err
	}
	if s.metrics != nil {
		s.metrics.PaymentsInitiatedTotal.Inc()
	}

	s.publishEvent(ctx, natsAdapter.SubjectPaymentInitiated, map[string]interface{}{
		"payment_id": payment.ID,
		"listing_id": updated.ID,
		"amount":     payment.Amount.Amount,
		"currency":   payment.Amount.Currency,
		"provider":   payment.Provider,
	})
	return payment, updated, nil
}

// CompletePayment applies a successful provider outcome and activates the
// listing. The owner is notified by email; a mail failure is logged only.
func (s *ListingService) CompletePayment(ctx context.Context, paymentID, listingID, receipt, providerResponse string) (*domain.Payment, *domain.Listing, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}

	updatedPayment, updatedListing, err := s.workflows.ProcessPaymentCompletion(payment, listing, receipt, providerResponse)
	if err != nil {
		s.countRejection("complete_payment", err)
		return nil, nil, err
	}

	if err := s.payments.Update(ctx, updatedPayment); err != nil {
		return nil, nil, err
	}
	if err := s.listings.Update(ctx, updatedListing); err != nil {
		return nil, nil, err
	}
	if s.metrics != nil {
		s.metrics.PaymentsCompletedTotal.Inc()
	}

	s.publishEvent(ctx, natsAdapter.SubjectListingActivated, map[string]interface{}{
		"payment_id":   updatedPayment.ID,
		"listing_id":   updatedListing.ID,
		"published_at": updatedListing.PublishedAt.Format(time.RFC3339Nano),
		"expires_at":   updatedListing.ExpiresAt.Format(time.RFC3339Nano),
	})

	if owner, err := s.users.FindByID(ctx, updatedListing.OwnerID); err == nil {
		if err := s.mailer.SendListingActivatedEmail(owner.Email, updatedListing.Title); err != nil {
			s.logger.Warn("CompletePayment: activation email failed",
				zap.String("listing_id", updatedListing.ID),
				zap.Error(err))
		}
	} else {
		s.logger.Warn("CompletePayment: could not load owner for notification",
			zap.String("owner_id", updatedListing.OwnerID),
			zap.Error(err))
	}

	return updatedPayment, updatedListing, nil
}

// FailPayment records a failed provider outcome and reopens the listing.
func (s *ListingService) FailPayment(ctx context.Context, paymentID, listingID, errorMessage, providerResponse string) (*domain.Payment, *domain.Listing, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}

	updatedPayment, updatedListing, err := s.workflows.ProcessPaymentFailure(payment, listing, errorMessage, providerResponse)
	if err != nil {
		return nil, nil, err
	}

	if err := s.payments.Update(ctx, updatedPayment); err != nil {
		return nil, nil, err
	}
	if err := s.listings.Update(ctx, updatedListing); err != nil {
		return nil, nil, err
	}
	if s.metrics != nil {
		s.metrics.PaymentsFailedTotal.Inc()
	}

	s.publishEvent(ctx, natsAdapter.SubjectPaymentFailed, map[string]interface{}{
		"payment_id": updatedPayment.ID,
		"listing_id": updatedListing.ID,
		"reason":     errorMessage,
	})
	return updatedPayment, updatedListing, nil
}

// UpdateListing edits listing content; ownership is resolved here and handed
// to the workflow as a boolean.
func (s *ListingService) UpdateListing(ctx context.Context, userID, listingID string, in usecase.UpdateListingInput) (*domain.Listing, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	owns, err := s.listings.OwnsListing(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.workflows.UpdateListingContent(user, listing, owns, in)
	if err != nil {
		s.countRejection("update_listing", err)
		return nil, err
	}

	if err := s.listings.Update(ctx, updated); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ListingUpdatesTotal.Inc()
	}

	s.publishEvent(ctx, natsAdapter.SubjectListingUpdated, map[string]interface{}{
		"listing_id": updated.ID,
		"owner_id":   updated.OwnerID,
		"updated_at": updated.UpdatedAt.Format(time.RFC3339Nano),
	})
	return updated, nil
}

// Capabilities is a pure pass-through to the workflow projection.
func (s *ListingService) Capabilities(ctx context.Context, userID string) (usecase.CapabilitySet, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return usecase.CapabilitySet{}, err
	}
	return s.workflows.UserCapabilities(user), nil
}

func (s *ListingService) publishEvent(ctx context.Context, subject string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, data); err != nil {
		s.logger.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

func (s *ListingService) countRejection(workflow string, err error) {
	if s.metrics != nil && domain.IsRuleViolation(err) {
		s.metrics.WorkflowRejectionsTotal.WithLabelValues(workflow).Inc()
	}
}
