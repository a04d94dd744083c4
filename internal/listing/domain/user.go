package domain

import "time"

// User is a marketplace account snapshot. A deactivated user can perform no
// state-changing workflow.
type User struct {
	ID        string
	Email     string
	Name      string
	Contact   *ContactInfo
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Verified reports whether the user has a confirmed phone number. Verification
// is derived state, never stored.
func (u *User) Verified() bool {
	return u.Contact != nil && u.Contact.PhoneVerified
}

// HasCompleteProfile reports whether name, email and a verified contact are
// all present.
func (u *User) HasCompleteProfile() bool {
	return u.Name != "" && u.Email != "" && u.Verified()
}
