package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/listing/pricing"
	"github.com/inmuebla/listing-service/internal/listing/usecase"
	"github.com/inmuebla/listing-service/internal/platform/logger"
)

var svcNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeListingRepo struct {
	listings map[string]*domain.Listing
	owners   map[string]string
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[string]*domain.Listing{}, owners: map[string]string{}}
}

func (r *fakeListingRepo) CreateWithProperty(ctx context.Context, listing *domain.Listing, property *domain.Property) error {
	l := *listing
	r.listings[listing.ID] = &l
	r.owners[listing.ID] = listing.OwnerID
	return nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	if _, ok := r.listings[listing.ID]; !ok {
		return domain.ErrListingNotFound
	}
	l := *listing
	r.listings[listing.ID] = &l
	return nil
}

func (r *fakeListingRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	l := *listing
	return &l, nil
}

func (r *fakeListingRepo) OwnsListing(ctx context.Context, userID, listingID string) (bool, error) {
	return r.owners[listingID] == userID, nil
}

type fakePaymentRepo struct {
	payments map[string]*domain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*domain.Payment{}}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	p := *payment
	r.payments[payment.ID] = &p
	return nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	if _, ok := r.payments[payment.ID]; !ok {
		return domain.ErrPaymentNotFound
	}
	p := *payment
	r.payments[payment.ID] = &p
	return nil
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	p := *payment
	return &p, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

type fakePublisher struct {
	subjects []string
}

func (p *fakePublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

type fakeMailer struct {
	sentTo []string
}

func (m *fakeMailer) SendListingActivatedEmail(toEmail, listingTitle string) error {
	m.sentTo = append(m.sentTo, toEmail)
	return nil
}

type fakeMedia struct {
	uploads int
}

func (s *fakeMedia) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	s.uploads++
	return "https://media.example.com/" + fileName, nil
}

type fixture struct {
	svc       *ListingService
	listings  *fakeListingRepo
	payments  *fakePaymentRepo
	publisher *fakePublisher
	mailer    *fakeMailer
	media     *fakeMedia
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := &fakeUserRepo{users: map[string]*domain.User{
		"u-1": {
			ID:       "u-1",
			Name:     "Maria",
			Email:    "maria@example.com",
			IsActive: true,
			Contact:  &domain.ContactInfo{Phone: "987654321", PhoneVerified: true},
		},
	}}
	f := &fixture{
		listings:  newFakeListingRepo(),
		payments:  newFakePaymentRepo(),
		publisher: &fakePublisher{},
		mailer:    &fakeMailer{},
		media:     &fakeMedia{},
	}
	workflows := usecase.NewWorkflows(pricing.Default(), func() time.Time { return svcNow }, logger.NewNop())
	f.svc = NewListingService(workflows, f.listings, f.payments, users, f.publisher, f.mailer, f.media, nil, logger.NewNop())
	return f
}

func testProperty() *domain.Property {
	return &domain.Property{
		ID:        "p-1",
		OwnerID:   "u-1",
		Type:      domain.PropertyApartment,
		Operation: domain.OperationSale,
		AreaM2:    80,
		Available: true,
	}
}

func createInput() usecase.CreateListingInput {
	return usecase.CreateListingInput{
		ListingID:   "l-1",
		Title:       "Bright apartment in Miraflores",
		Description: "Two-bedroom apartment with ocean view, recently renovated.",
		Price:       domain.NewPrice(400_000, domain.CurrencyUSD),
	}
}

func TestCreateListing_PersistsAndPublishes(t *testing.T) {
	f := newFixture(t)

	listing, err := f.svc.CreateListing(context.Background(), "u-1", testProperty(), createInput(),
		[]MediaFile{{Name: "front.jpg", Data: []byte("jpeg")}})
	require.NoError(t, err)

	assert.Equal(t, 1, f.media.uploads)
	assert.Equal(t, []string{"https://media.example.com/front.jpg"}, listing.Photos)

	stored, err := f.listings.FindByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, stored.Status)

	assert.Equal(t, []string{"listing.created"}, f.publisher.subjects)
}

func TestCreateListing_RejectionDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	in := createInput()
	in.Title = "Hi"

	_, err := f.svc.CreateListing(context.Background(), "u-1", testProperty(), in, nil)
	require.Error(t, err)
	assert.True(t, domain.IsRuleViolation(err))
	assert.Empty(t, f.listings.listings)
	assert.Empty(t, f.publisher.subjects)
}

func TestCreateListing_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateListing(context.Background(), "ghost", testProperty(), createInput(), nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestPaymentLifecycle_CompletionActivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateListing(ctx, "u-1", testProperty(), createInput(), nil)
	require.NoError(t, err)

	payment, frozen, err := f.svc.InitiatePayment(ctx, "u-1", "l-1", "stripe", "card")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaymentPending, frozen.Status)

	stored, _ := f.listings.FindByID(ctx, "l-1")
	assert.Equal(t, domain.StatusPaymentPending, stored.Status)

	updatedPayment, updatedListing, err := f.svc.CompletePayment(ctx, payment.ID, "l-1", "rcpt-1", "ok")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, updatedPayment.Status)
	assert.Equal(t, domain.StatusActive, updatedListing.Status)
	assert.Equal(t, svcNow.Add(30*24*time.Hour), updatedListing.ExpiresAt)

	assert.Equal(t, []string{"maria@example.com"}, f.mailer.sentTo)
	assert.Equal(t, []string{"listing.created", "listing.payment_initiated", "listing.activated"}, f.publisher.subjects)
}

func TestPaymentLifecycle_FailureReverts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateListing(ctx, "u-1", testProperty(), createInput(), nil)
	require.NoError(t, err)
	payment, _, err := f.svc.InitiatePayment(ctx, "u-1", "l-1", "stripe", "card")
	require.NoError(t, err)

	updatedPayment, updatedListing, err := f.svc.FailPayment(ctx, payment.ID, "l-1", "card declined", "declined")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, updatedPayment.Status)
	assert.Equal(t, domain.StatusDraft, updatedListing.Status)
	assert.Empty(t, f.mailer.sentTo)

	// Retry works: the listing is draft again.
	_, _, err = f.svc.InitiatePayment(ctx, "u-1", "l-1", "stripe", "card")
	assert.NoError(t, err)
}

func TestInitiatePayment_SecondAttemptRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateListing(ctx, "u-1", testProperty(), createInput(), nil)
	require.NoError(t, err)
	_, _, err = f.svc.InitiatePayment(ctx, "u-1", "l-1", "stripe", "card")
	require.NoError(t, err)

	_, _, err = f.svc.InitiatePayment(ctx, "u-1", "l-1", "stripe", "card")
	require.Error(t, err)
	assert.True(t, domain.IsRuleViolation(err))
}

func TestUpdateListing_OwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateListing(ctx, "u-1", testProperty(), createInput(), nil)
	require.NoError(t, err)

	intruder := &domain.User{
		ID:       "u-2",
		Name:     "Jose",
		Email:    "jose@example.com",
		IsActive: true,
		Contact:  &domain.ContactInfo{Phone: "911222333", PhoneVerified: true},
	}
	f.svc.users.(*fakeUserRepo).users["u-2"] = intruder

	newTitle := "Spacious apartment with terrace"
	_, err = f.svc.UpdateListing(ctx, "u-2", "l-1", usecase.UpdateListingInput{Title: &newTitle})
	require.Error(t, err)
	assert.True(t, domain.IsRuleViolation(err))

	updated, err := f.svc.UpdateListing(ctx, "u-1", "l-1", usecase.UpdateListingInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	stored, _ := f.listings.FindByID(ctx, "l-1")
	assert.Equal(t, newTitle, stored.Title)
}

func TestCapabilities(t *testing.T) {
	f := newFixture(t)

	caps, err := f.svc.Capabilities(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, caps.CanCreateListings)

	_, err = f.svc.Capabilities(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
