package domain

import "strings"

// ContactInfo is a phone contact attached to a user or to a single listing.
type ContactInfo struct {
	Phone         string
	PhoneVerified bool
}

// DigitsOnly strips every non-digit rune from the phone number, so numbers
// entered as "+51 987-654-321" and "51987654321" compare equal.
func (c ContactInfo) DigitsOnly() string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.Phone)
}
