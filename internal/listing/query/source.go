// Package query serves active-listing reads through a time-bounded cache.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inmuebla/listing-service/internal/listing/domain"
)

// ErrorKind classifies failures of the listings data source. These originate
// outside the business-rule boundary and are kept apart from the domain
// violation family.
type ErrorKind string

const (
	KindNetwork            ErrorKind = "network"
	KindAuthentication     ErrorKind = "authentication"
	KindValidation         ErrorKind = "validation"
	KindBusiness           ErrorKind = "business"
	KindConfiguration      ErrorKind = "configuration"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindNotFound           ErrorKind = "not_found"
	KindUnknown            ErrorKind = "unknown"
)

// SourceError is an infrastructure failure from the listings data source.
type SourceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func NewSourceError(kind ErrorKind, message string, err error) *SourceError {
	return &SourceError{Kind: kind, Message: message, Err: err}
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or KindUnknown for foreign errors.
func KindOf(err error) ErrorKind {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a not-found source error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// ListingDetail is the denormalized read model served to consumers. It merges
// the listing content with the property facts a results page needs.
type ListingDetail struct {
	ListingID    string
	Title        string
	Description  string
	Price        domain.Price
	Operation    domain.OperationType
	PropertyType domain.PropertyType
	District     string
	City         string
	AreaM2       float64
	Bedrooms     int
	Bathrooms    int
	Photos       []string
	ContactPhone string
	PublishedAt  time.Time
	ExpiresAt    time.Time
}

// ListingSource is the external data-source contract. FetchDetailByID returns
// (nil, nil) when no active listing exists for the id; the cache normalizes
// that into a not-found SourceError.
type ListingSource interface {
	FetchActiveByOperationType(ctx context.Context, op domain.OperationType) ([]ListingDetail, error)
	FetchDetailByID(ctx context.Context, id string) (*ListingDetail, error)
}
