package domain

import (
	"fmt"
	"time"
)

type ListingStatus string

const (
	StatusDraft          ListingStatus = "draft"
	StatusPaymentPending ListingStatus = "payment_pending"
	StatusActive         ListingStatus = "active"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPaymentPending, StatusActive:
		return true
	}
	return false
}

func (s ListingStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPaymentPending:
		return "Awaiting Payment"
	case StatusActive:
		return "Published"
	default:
		return string(s)
	}
}

const (
	TitleMinLength       = 5
	DescriptionMinLength = 20
)

// Listing is a publication of a property. Status is the sole driver of edit
// and payment eligibility; it changes only through the workflow layer.
type Listing struct {
	ID          string
	PropertyID  string
	OwnerID     string
	Title       string
	Description string
	Price       Price
	Contact     *ContactInfo
	Photos      []string
	Status      ListingStatus
	PublishedAt time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateListingContent checks the field-level rules shared by creation and
// editing. It returns every broken rule, not just the first.
func ValidateListingContent(title, description string, price Price) []string {
	var violations []string
	if title == "" {
		violations = append(violations, "title must not be empty")
	} else if len(title) < TitleMinLength {
		violations = append(violations, fmt.Sprintf("title must be at least %d characters", TitleMinLength))
	}
	if description == "" {
		violations = append(violations, "description must not be empty")
	} else if len(description) < DescriptionMinLength {
		violations = append(violations, fmt.Sprintf("description must be at least %d characters", DescriptionMinLength))
	}
	if !price.IsPositive() {
		violations = append(violations, "price must be positive")
	}
	return violations
}

// NewListing builds a draft listing and returns it together with any content
// violations. The listing is returned even when invalid so callers can
// aggregate its violations with cross-entity checks before failing.
func NewListing(id, propertyID, ownerID, title, description string, price Price, contact *ContactInfo, photos []string, now time.Time) (*Listing, []string) {
	violations := ValidateListingContent(title, description, price)
	return &Listing{
		ID:          id,
		PropertyID:  propertyID,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Price:       price,
		Contact:     contact,
		Photos:      photos,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, violations
}

// CanBeEdited reports whether content edits are currently allowed. A listing
// awaiting payment is frozen until the payment resolves.
func (l *Listing) CanBeEdited() bool {
	return l.Status == StatusDraft || l.Status == StatusActive
}

// NeedsPayment reports whether the listing still requires the listing fee.
func (l *Listing) NeedsPayment() bool {
	return l.Status == StatusDraft
}

// IsExpired reports whether an activated listing is past its expiry. Expiry is
// derived on read; there is no stored "expired" status.
func (l *Listing) IsExpired(now time.Time) bool {
	return !l.ExpiresAt.IsZero() && now.After(l.ExpiresAt)
}

// Activate publishes the listing. ExpiresAt is set here and only here.
func (l *Listing) Activate(now time.Time, duration time.Duration) {
	l.Status = StatusActive
	l.PublishedAt = now
	l.ExpiresAt = now.Add(duration)
	l.UpdatedAt = now
}

// MarkPaymentPending freezes the listing while its fee payment is in flight.
func (l *Listing) MarkPaymentPending(now time.Time) {
	l.Status = StatusPaymentPending
	l.UpdatedAt = now
}

// RevertToDraft returns the listing to draft after a failed payment so the
// owner can retry.
func (l *Listing) RevertToDraft(now time.Time) {
	l.Status = StatusDraft
	l.UpdatedAt = now
}
