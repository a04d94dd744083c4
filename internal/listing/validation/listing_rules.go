package validation

import (
	"fmt"

	"github.com/inmuebla/listing-service/internal/listing/domain"
)

const (
	// LandMinPrice is the absolute price floor for land, which has no usable
	// per-square-meter bound.
	LandMinPrice = 10_000.0

	MinPricePerM2 = 100.0
	MaxPricePerM2 = 50_000.0
)

// ValidateListingAgainstUserAndProperty runs the cross-entity content rules:
// contact-phone consistency and pricing sanity. Returns every violation found.
func ValidateListingAgainstUserAndProperty(user *domain.User, listing *domain.Listing, property *domain.Property) []string {
	var violations []string

	if listing.Contact != nil && user.Contact != nil {
		if listing.Contact.DigitsOnly() != user.Contact.DigitsOnly() {
			violations = append(violations, "listing contact phone does not match user phone")
		}
	}

	violations = append(violations, validatePricingSanity(listing.Price, property)...)
	return violations
}

func validatePricingSanity(price domain.Price, property *domain.Property) []string {
	if property.Type == domain.PropertyLand {
		if price.Amount < LandMinPrice {
			return []string{fmt.Sprintf("price too low: land must be priced at %.0f or above", LandMinPrice)}
		}
		return nil
	}

	if property.AreaM2 <= 0 {
		return nil
	}
	perM2 := price.Amount / property.AreaM2
	if perM2 < MinPricePerM2 {
		return []string{fmt.Sprintf("price per m² too low: %.2f is below %.0f", perM2, MinPricePerM2)}
	}
	if perM2 > MaxPricePerM2 {
		return []string{fmt.Sprintf("price per m² too high: %.2f is above %.0f", perM2, MaxPricePerM2)}
	}
	return nil
}
