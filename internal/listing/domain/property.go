package domain

import "time"

type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyApartment PropertyType = "apartment"
	PropertyLand      PropertyType = "land"
	PropertyOffice    PropertyType = "office"
)

func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyHouse, PropertyApartment, PropertyLand, PropertyOffice:
		return true
	}
	return false
}

func (t PropertyType) Label() string {
	switch t {
	case PropertyHouse:
		return "House"
	case PropertyApartment:
		return "Apartment"
	case PropertyLand:
		return "Land"
	case PropertyOffice:
		return "Office"
	default:
		return string(t)
	}
}

type OperationType string

const (
	OperationSale   OperationType = "sale"
	OperationRental OperationType = "rental"
)

func (t OperationType) IsValid() bool {
	return t == OperationSale || t == OperationRental
}

func (t OperationType) Label() string {
	switch t {
	case OperationSale:
		return "For Sale"
	case OperationRental:
		return "For Rent"
	default:
		return string(t)
	}
}

// DefaultCurrency is the conventional currency for the operation type. It is
// advisory only; listings may be priced in any currency.
func (t OperationType) DefaultCurrency() string {
	if t == OperationRental {
		return CurrencyPEN
	}
	return CurrencyUSD
}

// Location describes where a property sits. Geocoding is an external concern;
// coordinates arrive already resolved.
type Location struct {
	District  string
	City      string
	Latitude  float64
	Longitude float64
}

// Property is created once and referenced by a listing at creation time. It is
// not state-machine driven.
type Property struct {
	ID           string
	OwnerID      string
	Type         PropertyType
	Operation    OperationType
	AreaM2       float64
	Bedrooms     int
	Bathrooms    int
	ParkingSpots int
	Location     Location
	Photos       []string
	Available    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
