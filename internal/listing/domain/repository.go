package domain

import "context"

// ListingRepository is the persistence collaborator for listings. Atomicity of
// the listing+property pair at creation is this collaborator's contract, not
// the caller's.
type ListingRepository interface {
	CreateWithProperty(ctx context.Context, listing *Listing, property *Property) error
	Update(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	// OwnsListing resolves ownership; the workflow layer never computes it.
	OwnsListing(ctx context.Context, userID, listingID string) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id string) (*Payment, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}
