package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/platform/logger"
)

var cacheT0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a manually advanced clock shared with the cache under test.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// stubSource counts calls and serves a programmable snapshot per operation
// type, or a fixed error.
type stubSource struct {
	snapshots   map[domain.OperationType][]ListingDetail
	details     map[string]*ListingDetail
	err         error
	activeCalls int
	detailCalls int
}

func (s *stubSource) FetchActiveByOperationType(ctx context.Context, op domain.OperationType) ([]ListingDetail, error) {
	s.activeCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshots[op], nil
}

func (s *stubSource) FetchDetailByID(ctx context.Context, id string) (*ListingDetail, error) {
	s.detailCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.details[id], nil
}

func detail(id string) ListingDetail {
	return ListingDetail{
		ListingID:    id,
		Title:        "Bright apartment in Miraflores",
		Price:        domain.NewPrice(400_000, domain.CurrencyUSD),
		Operation:    domain.OperationSale,
		PropertyType: domain.PropertyApartment,
	}
}

func newTestCache(source ListingSource, clock *fakeClock) *ActiveListingsCache {
	return NewActiveListingsCache(source, clock.Now, logger.NewNop(), nil)
}

func TestFetchActive_TTLWindow(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	source := &stubSource{snapshots: map[domain.OperationType][]ListingDetail{
		domain.OperationSale: {detail("A"), detail("B")},
	}}
	cache := newTestCache(source, clock)
	ctx := context.Background()

	// t0: miss, one source call.
	got, err := cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, source.activeCalls)

	// t0+9m: still fresh, served without touching the source.
	clock.Advance(9 * time.Minute)
	got, err = cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, source.activeCalls)

	// t0+11m: expired, exactly one more source call, new snapshot served.
	source.snapshots[domain.OperationSale] = []ListingDetail{detail("A"), detail("B"), detail("C")}
	clock.Advance(2 * time.Minute)
	got, err = cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 2, source.activeCalls)

	// t0+20m: within the refreshed window, served from the partition.
	clock.Advance(9 * time.Minute)
	got, err = cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 2, source.activeCalls)
}

func TestFetchActive_PartitionsAreIndependent(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	source := &stubSource{snapshots: map[domain.OperationType][]ListingDetail{
		domain.OperationSale:   {detail("A")},
		domain.OperationRental: {detail("B"), detail("C")},
	}}
	cache := newTestCache(source, clock)
	ctx := context.Background()

	sale, err := cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)
	rental, err := cache.FetchActive(ctx, domain.OperationRental)
	require.NoError(t, err)

	assert.Len(t, sale, 1)
	assert.Len(t, rental, 2)
	assert.Equal(t, 2, source.activeCalls, "each partition fetches once")
}

func TestFetchActive_EmptySnapshotIsCacheable(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	source := &stubSource{snapshots: map[domain.OperationType][]ListingDetail{}}
	cache := newTestCache(source, clock)
	ctx := context.Background()

	got, err := cache.FetchActive(ctx, domain.OperationRental)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, source.activeCalls)

	// An empty snapshot is still a fresh partition, not a miss.
	clock.Advance(5 * time.Minute)
	got, err = cache.FetchActive(ctx, domain.OperationRental)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, source.activeCalls)
}

func TestFetchActive_InvalidOperationType(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	source := &stubSource{}
	cache := newTestCache(source, clock)

	_, err := cache.FetchActive(context.Background(), domain.OperationType("lease"))
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, 0, source.activeCalls, "invalid input never reaches the source")
}

func TestFetchActive_SourceFailurePropagates(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	source := &stubSource{snapshots: map[domain.OperationType][]ListingDetail{
		domain.OperationSale: {detail("A")},
	}}
	cache := newTestCache(source, clock)
	ctx := context.Background()

	_, err := cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)

	// Partition expires, then the source starts failing.
	clock.Advance(11 * time.Minute)
	source.err = NewSourceError(KindNetwork, "connection refused", nil)

	_, err = cache.FetchActive(ctx, domain.OperationSale)
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err), "stale data is never served as a fallback")

	// Source recovers; the next read fetches rather than serving the old
	// expired partition.
	source.err = nil
	got, err := cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, source.activeCalls)
}

func TestFetchActive_ReturnsACopy(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	source := &stubSource{snapshots: map[domain.OperationType][]ListingDetail{
		domain.OperationSale: {detail("A"), detail("B")},
	}}
	cache := newTestCache(source, clock)
	ctx := context.Background()

	_, err := cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)

	first, err := cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)
	first[0].Title = "mutated by caller"

	second, err := cache.FetchActive(ctx, domain.OperationSale)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated by caller", second[0].Title)
}

func TestFetchDetail_NeverCached(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	d := detail("A")
	source := &stubSource{details: map[string]*ListingDetail{"A": &d}}
	cache := newTestCache(source, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cache.FetchDetail(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, "A", got.ListingID)
	}
	assert.Equal(t, 3, source.detailCalls)
}

func TestFetchDetail_NotFoundNormalization(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	source := &stubSource{details: map[string]*ListingDetail{}}
	cache := newTestCache(source, clock)

	_, err := cache.FetchDetail(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestInvalidate(t *testing.T) {
	clock := &fakeClock{current: cacheT0}
	source := &stubSource{snapshots: map[domain.OperationType][]ListingDetail{
		domain.OperationSale:   {detail("A")},
		domain.OperationRental: {detail("B")},
	}}
	cache := newTestCache(source, clock)
	ctx := context.Background()

	_, _ = cache.FetchActive(ctx, domain.OperationSale)
	_, _ = cache.FetchActive(ctx, domain.OperationRental)
	require.Equal(t, 2, source.activeCalls)

	cache.Invalidate(domain.OperationSale)

	_, _ = cache.FetchActive(ctx, domain.OperationSale)
	assert.Equal(t, 3, source.activeCalls, "evicted partition refetches")
	_, _ = cache.FetchActive(ctx, domain.OperationRental)
	assert.Equal(t, 3, source.activeCalls, "other partition untouched")

	cache.InvalidateAll()
	_, _ = cache.FetchActive(ctx, domain.OperationRental)
	assert.Equal(t, 4, source.activeCalls)
}
