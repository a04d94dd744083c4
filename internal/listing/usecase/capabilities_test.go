package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserCapabilities_ActiveVerified(t *testing.T) {
	w := newTestWorkflows(workflowNow)

	caps := w.UserCapabilities(testUser())
	assert.True(t, caps.CanSearch)
	assert.True(t, caps.CanContact)
	assert.True(t, caps.CanCreateListings)
	assert.True(t, caps.CanMakePayments)
	assert.True(t, caps.CanEditProfile)
	assert.False(t, caps.NeedsPhoneVerification)
	assert.True(t, caps.HasCompleteProfile)
	assert.False(t, caps.IsNewUser, "registered 30 days ago")
}

func TestUserCapabilities_Unverified(t *testing.T) {
	w := newTestWorkflows(workflowNow)
	user := testUser()
	user.Contact = nil

	caps := w.UserCapabilities(user)
	assert.True(t, caps.CanSearch)
	assert.False(t, caps.CanContact)
	assert.False(t, caps.CanCreateListings)
	assert.False(t, caps.CanMakePayments)
	assert.True(t, caps.CanEditProfile)
	assert.True(t, caps.NeedsPhoneVerification)
	assert.False(t, caps.HasCompleteProfile)
}

func TestUserCapabilities_Deactivated(t *testing.T) {
	w := newTestWorkflows(workflowNow)
	user := testUser()
	user.IsActive = false

	caps := w.UserCapabilities(user)
	assert.False(t, caps.CanSearch)
	assert.False(t, caps.CanContact)
	assert.False(t, caps.CanCreateListings)
	assert.False(t, caps.CanMakePayments)
	assert.False(t, caps.CanEditProfile)
}

func TestUserCapabilities_NewUserWindow(t *testing.T) {
	w := newTestWorkflows(workflowNow)

	fresh := testUser()
	fresh.CreatedAt = workflowNow.Add(-6 * 24 * time.Hour)
	assert.True(t, w.UserCapabilities(fresh).IsNewUser)

	old := testUser()
	old.CreatedAt = workflowNow.Add(-8 * 24 * time.Hour)
	assert.False(t, w.UserCapabilities(old).IsNewUser)
}

func TestUserCapabilities_Deterministic(t *testing.T) {
	w := newTestWorkflows(workflowNow)
	user := testUser()

	first := w.UserCapabilities(user)
	second := w.UserCapabilities(user)
	assert.Equal(t, first, second)
}
