// Package usecase implements the listing and payment workflows. Workflows are
// stateless transformations over entity snapshots: they perform no I/O, hold
// no mutable state, and are safe to call concurrently. Persistence of the
// returned entities is the caller's responsibility.
package usecase

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/listing/pricing"
	"github.com/inmuebla/listing-service/internal/listing/validation"
	"github.com/inmuebla/listing-service/internal/platform/logger"
)

// Clock supplies wall-clock time so tests can simulate time deterministically.
type Clock func() time.Time

type Workflows struct {
	pricing *pricing.Config
	now     Clock
	logger  *logger.Logger
}

func NewWorkflows(cfg *pricing.Config, clock Clock, log *logger.Logger) *Workflows {
	return &Workflows{
		pricing: cfg,
		now:     clock,
		logger:  log.Named("Workflows"),
	}
}

// CreateListingInput carries the caller-supplied fields for a new listing.
type CreateListingInput struct {
	ListingID   string
	Title       string
	Description string
	Price       domain.Price
	Contact     *domain.ContactInfo
	Photos      []string
}

// UpdateListingInput carries optional content changes; nil fields are left
// untouched.
type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *domain.Price
	Contact     *domain.ContactInfo
	Photos      []string
}

// CreateListing runs the eligibility check, builds a draft listing and applies
// cross-entity validation. All violations are aggregated into a single
// failure; nothing is constructed when the user is ineligible.
func (w *Workflows) CreateListing(user *domain.User, property *domain.Property, in CreateListingInput) (result *domain.Listing, err error) {
	defer w.recoverWorkflow("CreateListing", &err)

	if elig := validation.CheckListingEligibility(user, property); !elig.IsEligible() {
		w.logger.Info("CreateListing: user not eligible",
			zap.String("user_id", user.ID),
			zap.String("eligibility", string(elig.Status)))
		return nil, eligibilityFailure(elig)
	}

	listing, violations := domain.NewListing(
		in.ListingID, property.ID, user.ID,
		in.Title, in.Description, in.Price,
		in.Contact, in.Photos, w.now(),
	)
	violations = append(violations, validation.ValidateListingAgainstUserAndProperty(user, listing, property)...)
	if len(violations) > 0 {
		w.logger.Info("CreateListing: validation failed",
			zap.String("user_id", user.ID),
			zap.Strings("violations", violations))
		return nil, domain.NewRuleViolationError("listing validation failed", violations...)
	}

	w.logger.Info("CreateListing: draft created",
		zap.String("listing_id", listing.ID),
		zap.String("user_id", user.ID))
	return listing, nil
}

// InitiateListingPayment creates a fee payment and freezes the listing.
// Guarded by NeedsPayment so an already-paid or mid-payment listing cannot be
// charged again. Persistence atomicity across the returned pair is delegated
// to the caller.
func (w *Workflows) InitiateListingPayment(user *domain.User, listing *domain.Listing, paymentID, provider, method string) (payment *domain.Payment, updated *domain.Listing, err error) {
	defer w.recoverWorkflow("InitiateListingPayment", &err)

	if !user.IsActive {
		return nil, nil, domain.NewRuleViolationError("payment cannot be initiated", "user account is deactivated")
	}
	if !user.Verified() {
		return nil, nil, domain.NewRuleViolationError("payment cannot be initiated", "user must have a verified phone")
	}
	if !listing.NeedsPayment() {
		return nil, nil, domain.NewRuleViolationError("payment cannot be initiated",
			fmt.Sprintf("listing does not require payment (status: %s)", listing.Status))
	}

	now := w.now()
	payment = domain.NewPayment(paymentID, provider, method, w.pricing.ListingFee(), now)

	l := *listing
	l.MarkPaymentPending(now)

	w.logger.Info("InitiateListingPayment: payment created",
		zap.String("payment_id", payment.ID),
		zap.String("listing_id", l.ID),
		zap.Float64("amount", payment.Amount.Amount))
	return payment, &l, nil
}

// ProcessPaymentCompletion applies a successful provider outcome: the payment
// completes and the listing activates with a full visibility window.
func (w *Workflows) ProcessPaymentCompletion(payment *domain.Payment, listing *domain.Listing, receipt, providerResponse string) (updatedPayment *domain.Payment, updatedListing *domain.Listing, err error) {
	defer w.recoverWorkflow("ProcessPaymentCompletion", &err)

	now := w.now()
	if violations := validation.ValidatePaymentListingCompatibility(payment, listing, w.pricing.ListingFee(), now); len(violations) > 0 {
		w.logger.Info("ProcessPaymentCompletion: compatibility check failed",
			zap.String("payment_id", payment.ID),
			zap.String("listing_id", listing.ID),
			zap.Strings("violations", violations))
		return nil, nil, domain.NewRuleViolationError("payment cannot be applied to listing", violations...)
	}

	p := *payment
	p.Complete(now, receipt, providerResponse)

	l := *listing
	l.Activate(now, w.pricing.ListingDuration())

	w.logger.Info("ProcessPaymentCompletion: listing activated",
		zap.String("payment_id", p.ID),
		zap.String("listing_id", l.ID),
		zap.Time("expires_at", l.ExpiresAt))
	return &p, &l, nil
}

// ProcessPaymentFailure marks the payment failed and unconditionally reverts
// the listing to draft so the owner can retry. Unlike the completion path it
// runs no compatibility checks: cleanup must succeed even for a mismatched
// pair.
func (w *Workflows) ProcessPaymentFailure(payment *domain.Payment, listing *domain.Listing, errorMessage, providerResponse string) (updatedPayment *domain.Payment, updatedListing *domain.Listing, err error) {
	defer w.recoverWorkflow("ProcessPaymentFailure", &err)

	now := w.now()

	p := *payment
	p.Fail(now, errorMessage, providerResponse)

	l := *listing
	l.RevertToDraft(now)

	w.logger.Info("ProcessPaymentFailure: listing reverted to draft",
		zap.String("payment_id", p.ID),
		zap.String("listing_id", l.ID),
		zap.String("reason", errorMessage))
	return &p, &l, nil
}

// UpdateListingContent applies content edits. Ownership is resolved by the
// persistence collaborator and supplied as a boolean. Re-validation is
// identical to creation's field-level rules.
func (w *Workflows) UpdateListingContent(user *domain.User, listing *domain.Listing, ownsListing bool, in UpdateListingInput) (updated *domain.Listing, err error) {
	defer w.recoverWorkflow("UpdateListingContent", &err)

	if !user.IsActive {
		return nil, domain.NewRuleViolationError("listing cannot be edited", "user account is deactivated")
	}
	if !user.Verified() {
		return nil, domain.NewRuleViolationError("listing cannot be edited", "user must have a verified phone")
	}
	if !ownsListing {
		return nil, domain.NewRuleViolationError("listing cannot be edited", "user does not own this listing")
	}
	if !listing.CanBeEdited() {
		return nil, domain.NewRuleViolationError("listing cannot be edited",
			fmt.Sprintf("listing is not editable in its current state (status: %s)", listing.Status))
	}

	l := *listing
	if in.Title != nil {
		l.Title = *in.Title
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.Price != nil {
		l.Price = *in.Price
	}
	if in.Contact != nil {
		l.Contact = in.Contact
	}
	if in.Photos != nil {
		l.Photos = in.Photos
	}

	if violations := domain.ValidateListingContent(l.Title, l.Description, l.Price); len(violations) > 0 {
		w.logger.Info("UpdateListingContent: validation failed",
			zap.String("listing_id", l.ID),
			zap.Strings("violations", violations))
		return nil, domain.NewRuleViolationError("listing validation failed", violations...)
	}
	l.UpdatedAt = w.now()

	w.logger.Info("UpdateListingContent: listing updated", zap.String("listing_id", l.ID))
	return &l, nil
}

func eligibilityFailure(elig validation.Eligibility) error {
	switch elig.Status {
	case validation.EligibilityRequiresPhone:
		return domain.NewRuleViolationError("user is not eligible to create listings", "a phone number is required")
	case validation.EligibilityRequiresVerification:
		return domain.NewRuleViolationError("user is not eligible to create listings", "phone verification is required")
	default:
		return domain.NewRuleViolationError("user is not eligible to create listings", elig.Reason)
	}
}

// recoverWorkflow converts an unexpected panic into a generic failure carrying
// the stringified cause, so no workflow ever propagates a panic to callers.
func (w *Workflows) recoverWorkflow(name string, err *error) {
	if r := recover(); r != nil {
		w.logger.Error("workflow panicked",
			zap.String("workflow", name),
			zap.Any("cause", r))
		*err = domain.NewRuleViolationError(fmt.Sprintf("%s failed unexpectedly: %v", name, r))
	}
}
