// Package pricing is the single source of truth for the listing fee.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/inmuebla/listing-service/internal/listing/domain"
)

// ErrPromotionsNotSupported is returned by the promotional-pricing seam; v1
// has a single fixed fee.
var ErrPromotionsNotSupported = errors.New("promotional pricing is not supported")

const (
	defaultFeeAmount   = 50.00
	defaultFeeCurrency = domain.CurrencyPEN

	// DefaultListingDuration is how long an activated listing stays visible.
	DefaultListingDuration = 30 * 24 * time.Hour

	minFeeAmount = 1.0
	maxFeeAmount = 1000.0
)

// Config holds the current listing fee and duration. It is never mutated at
// runtime.
type Config struct {
	fee      domain.Price
	duration time.Duration
	minFee   float64
	maxFee   float64
}

// Default returns the v1 pricing: a fixed fee and a 30-day listing duration.
func Default() *Config {
	return &Config{
		fee:      domain.NewPrice(defaultFeeAmount, defaultFeeCurrency),
		duration: DefaultListingDuration,
		minFee:   minFeeAmount,
		maxFee:   maxFeeAmount,
	}
}

// ListingFee is the fee a payment must match exactly.
func (c *Config) ListingFee() domain.Price {
	return c.fee
}

// ListingDuration is the visibility window granted on activation.
func (c *Config) ListingDuration() time.Duration {
	return c.duration
}

// ValidateFeeAmount checks that an amount lies within the configured bounds.
func (c *Config) ValidateFeeAmount(amount float64) error {
	if amount < c.minFee || amount > c.maxFee {
		return fmt.Errorf("fee amount %.2f outside bounds [%.2f, %.2f]", amount, c.minFee, c.maxFee)
	}
	return nil
}

// PromotionalFee is the seam for future promotional pricing.
func (c *Config) PromotionalFee(code string) (domain.Price, error) {
	return domain.Price{}, ErrPromotionsNotSupported
}
