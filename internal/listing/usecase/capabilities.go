package usecase

import (
	"time"

	"github.com/inmuebla/listing-service/internal/listing/domain"
)

// newUserWindow is how long after registration an account counts as new.
const newUserWindow = 7 * 24 * time.Hour

// CapabilitySet is a pure projection of what a user may currently do. Safe to
// call arbitrarily often; no side effects.
type CapabilitySet struct {
	CanSearch              bool
	CanContact             bool
	CanCreateListings      bool
	CanMakePayments        bool
	CanEditProfile         bool
	NeedsPhoneVerification bool
	HasCompleteProfile     bool
	IsNewUser              bool
}

// UserCapabilities derives the capability set from the user's active,
// verification and profile-completeness state.
func (w *Workflows) UserCapabilities(user *domain.User) CapabilitySet {
	verified := user.Verified()
	return CapabilitySet{
		CanSearch:              user.IsActive,
		CanContact:             user.IsActive && verified,
		CanCreateListings:      user.IsActive && verified,
		CanMakePayments:        user.IsActive && verified,
		CanEditProfile:         user.IsActive,
		NeedsPhoneVerification: !verified,
		HasCompleteProfile:     user.HasCompleteProfile(),
		IsNewUser:              w.now().Sub(user.CreatedAt) < newUserWindow,
	}
}
