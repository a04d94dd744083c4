package validation

import (
	"fmt"
	"time"

	"github.com/inmuebla/listing-service/internal/listing/domain"
)

// ValidatePaymentListingCompatibility checks that a payment can be applied to
// a listing. A non-empty result is a failed precondition, not a fatal error.
// The fee comparison is exact: any nonzero difference is a violation.
func ValidatePaymentListingCompatibility(payment *domain.Payment, listing *domain.Listing, fee domain.Price, now time.Time) []string {
	var violations []string

	if payment.Status != domain.PaymentProcessing {
		violations = append(violations, fmt.Sprintf("payment is not processing (status: %s)", payment.Status))
	}
	if listing.Status != domain.StatusPaymentPending {
		violations = append(violations, fmt.Sprintf("listing is not awaiting payment (status: %s)", listing.Status))
	}
	if payment.Amount.Amount != fee.Amount {
		violations = append(violations, fmt.Sprintf("payment amount %.2f does not match the listing fee %.2f", payment.Amount.Amount, fee.Amount))
	}
	if payment.IsExpired(now) {
		violations = append(violations, "payment validity window has elapsed")
	}
	return violations
}
