// Package validation holds the pure cross-entity business rules. Every
// function here is deterministic and side-effect free.
package validation

import "github.com/inmuebla/listing-service/internal/listing/domain"

type EligibilityStatus string

const (
	EligibilityEligible             EligibilityStatus = "eligible"
	EligibilityIneligible           EligibilityStatus = "ineligible"
	EligibilityRequiresPhone        EligibilityStatus = "requires_phone"
	EligibilityRequiresVerification EligibilityStatus = "requires_verification"
)

// Eligibility is a user's qualification, at a point in time, to create a
// listing for a given property. Reason is set only for the ineligible variant.
type Eligibility struct {
	Status EligibilityStatus
	Reason string
}

func (e Eligibility) IsEligible() bool {
	return e.Status == EligibilityEligible
}

// CheckListingEligibility applies the checks in order: account active, phone
// present, phone verified, property available. The first unmet condition
// decides the variant.
func CheckListingEligibility(user *domain.User, property *domain.Property) Eligibility {
	if !user.IsActive {
		return Eligibility{Status: EligibilityIneligible, Reason: "user account is deactivated"}
	}
	if !user.Verified() {
		if user.Contact == nil {
			return Eligibility{Status: EligibilityRequiresPhone}
		}
		return Eligibility{Status: EligibilityRequiresVerification}
	}
	if !property.Available {
		return Eligibility{Status: EligibilityIneligible, Reason: "property is not available"}
	}
	return Eligibility{Status: EligibilityEligible}
}
