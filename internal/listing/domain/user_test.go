package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Verified(t *testing.T) {
	user := &User{ID: "u-1", IsActive: true}
	assert.False(t, user.Verified(), "no contact means not verified")

	user.Contact = &ContactInfo{Phone: "+51 987 654 321"}
	assert.False(t, user.Verified(), "unverified phone means not verified")

	user.Contact.PhoneVerified = true
	assert.True(t, user.Verified())
}

func TestUser_HasCompleteProfile(t *testing.T) {
	user := &User{
		ID:       "u-1",
		Name:     "Maria",
		Email:    "maria@example.com",
		IsActive: true,
		Contact:  &ContactInfo{Phone: "987654321", PhoneVerified: true},
	}
	assert.True(t, user.HasCompleteProfile())

	user.Email = ""
	assert.False(t, user.HasCompleteProfile())
}

func TestContactInfo_DigitsOnly(t *testing.T) {
	formatted := ContactInfo{Phone: "+51 987-654-321"}
	bare := ContactInfo{Phone: "51987654321"}

	assert.Equal(t, "51987654321", formatted.DigitsOnly())
	assert.Equal(t, formatted.DigitsOnly(), bare.DigitsOnly())
}
