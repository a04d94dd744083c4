package mongodb

import (
	"time"

	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/listing/query"
)

type priceDocument struct {
	Amount   float64 `bson:"amount"`
	Currency string  `bson:"currency"`
}

type contactDocument struct {
	Phone         string `bson:"phone"`
	PhoneVerified bool   `bson:"phone_verified"`
}

// listingDocument stores a listing together with a denormalized property
// summary, so active-listing queries never need a join.
type listingDocument struct {
	ID          string           `bson:"_id"`
	PropertyID  string           `bson:"property_id"`
	OwnerID     string           `bson:"owner_id"`
	Title       string           `bson:"title"`
	Description string           `bson:"description"`
	Price       priceDocument    `bson:"price"`
	Contact     *contactDocument `bson:"contact,omitempty"`
	Photos      []string         `bson:"photos,omitempty"`
	Status      string           `bson:"status"`
	PublishedAt time.Time        `bson:"published_at,omitempty"`
	ExpiresAt   time.Time        `bson:"expires_at,omitempty"`
	CreatedAt   time.Time        `bson:"created_at"`
	UpdatedAt   time.Time        `bson:"updated_at"`

	// Property summary, copied at creation.
	Operation    string  `bson:"operation_type"`
	PropertyType string  `bson:"property_type"`
	District     string  `bson:"district"`
	City         string  `bson:"city"`
	AreaM2       float64 `bson:"area_m2"`
	Bedrooms     int     `bson:"bedrooms"`
	Bathrooms    int     `bson:"bathrooms"`
}

type propertyDocument struct {
	ID           string    `bson:"_id"`
	OwnerID      string    `bson:"owner_id"`
	Type         string    `bson:"type"`
	Operation    string    `bson:"operation_type"`
	AreaM2       float64   `bson:"area_m2"`
	Bedrooms     int       `bson:"bedrooms"`
	Bathrooms    int       `bson:"bathrooms"`
	ParkingSpots int       `bson:"parking_spots"`
	District     string    `bson:"district"`
	City         string    `bson:"city"`
	Latitude     float64   `bson:"latitude"`
	Longitude    float64   `bson:"longitude"`
	Photos       []string  `bson:"photos,omitempty"`
	Available    bool      `bson:"available"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type paymentDocument struct {
	ID               string        `bson:"_id"`
	Provider         string        `bson:"provider"`
	Method           string        `bson:"method"`
	Status           string        `bson:"status"`
	Amount           priceDocument `bson:"amount"`
	Receipt          string        `bson:"receipt,omitempty"`
	ProviderResponse string        `bson:"provider_response,omitempty"`
	FailureReason    string        `bson:"failure_reason,omitempty"`
	CreatedAt        time.Time     `bson:"created_at"`
	CompletedAt      time.Time     `bson:"completed_at,omitempty"`
	ValidUntil       time.Time     `bson:"valid_until"`
}

type userDocument struct {
	ID        string           `bson:"_id"`
	Email     string           `bson:"email"`
	Name      string           `bson:"name"`
	Contact   *contactDocument `bson:"contact,omitempty"`
	IsActive  bool             `bson:"is_active"`
	CreatedAt time.Time        `bson:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

func toContactDocument(c *domain.ContactInfo) *contactDocument {
	if c == nil {
		return nil
	}
	return &contactDocument{Phone: c.Phone, PhoneVerified: c.PhoneVerified}
}

func toDomainContact(d *contactDocument) *domain.ContactInfo {
	if d == nil {
		return nil
	}
	return &domain.ContactInfo{Phone: d.Phone, PhoneVerified: d.PhoneVerified}
}

func toListingDocument(l *domain.Listing, p *domain.Property) *listingDocument {
	return &listingDocument{
		ID:          l.ID,
		PropertyID:  l.PropertyID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		Price:       priceDocument{Amount: l.Price.Amount, Currency: l.Price.Currency},
		Contact:     toContactDocument(l.Contact),
		Photos:      l.Photos,
		Status:      string(l.Status),
		PublishedAt: l.PublishedAt,
		ExpiresAt:   l.ExpiresAt,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,

		Operation:    string(p.Operation),
		PropertyType: string(p.Type),
		District:     p.Location.District,
		City:         p.Location.City,
		AreaM2:       p.AreaM2,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
	}
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:          d.ID,
		PropertyID:  d.PropertyID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Price:       domain.NewPrice(d.Price.Amount, d.Price.Currency),
		Contact:     toDomainContact(d.Contact),
		Photos:      d.Photos,
		Status:      domain.ListingStatus(d.Status),
		PublishedAt: d.PublishedAt,
		ExpiresAt:   d.ExpiresAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toListingDetail(d *listingDocument) query.ListingDetail {
	var phone string
	if d.Contact != nil {
		phone = d.Contact.Phone
	}
	return query.ListingDetail{
		ListingID:    d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Price:        domain.NewPrice(d.Price.Amount, d.Price.Currency),
		Operation:    domain.OperationType(d.Operation),
		PropertyType: domain.PropertyType(d.PropertyType),
		District:     d.District,
		City:         d.City,
		AreaM2:       d.AreaM2,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Photos:       d.Photos,
		ContactPhone: phone,
		PublishedAt:  d.PublishedAt,
		ExpiresAt:    d.ExpiresAt,
	}
}

func toPropertyDocument(p *domain.Property) *propertyDocument {
	return &propertyDocument{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Type:         string(p.Type),
		Operation:    string(p.Operation),
		AreaM2:       p.AreaM2,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		ParkingSpots: p.ParkingSpots,
		District:     p.Location.District,
		City:         p.Location.City,
		Latitude:     p.Location.Latitude,
		Longitude:    p.Location.Longitude,
		Photos:       p.Photos,
		Available:    p.Available,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPaymentDocument(p *domain.Payment) *paymentDocument {
	return &paymentDocument{
		ID:               p.ID,
		Provider:         p.Provider,
		Method:           p.Method,
		Status:           string(p.Status),
		Amount:           priceDocument{Amount: p.Amount.Amount, Currency: p.Amount.Currency},
		Receipt:          p.Receipt,
		ProviderResponse: p.ProviderResponse,
		FailureReason:    p.FailureReason,
		CreatedAt:        p.CreatedAt,
		CompletedAt:      p.CompletedAt,
		ValidUntil:       p.ValidUntil,
	}
}

func toDomainPayment(d *paymentDocument) *domain.Payment {
	if d == nil {
		return nil
	}
	return &domain.Payment{
		ID:               d.ID,
		Provider:         d.Provider,
		Method:           d.Method,
		Status:           domain.PaymentStatus(d.Status),
		Amount:           domain.NewPrice(d.Amount.Amount, d.Amount.Currency),
		Receipt:          d.Receipt,
		ProviderResponse: d.ProviderResponse,
		FailureReason:    d.FailureReason,
		CreatedAt:        d.CreatedAt,
		CompletedAt:      d.CompletedAt,
		ValidUntil:       d.ValidUntil,
	}
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:        d.ID,
		Email:     d.Email,
		Name:      d.Name,
		Contact:   toDomainContact(d.Contact),
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
