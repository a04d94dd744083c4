package query

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/platform/logger"
	"github.com/inmuebla/listing-service/internal/platform/metrics"
)

// DefaultTTL is the window during which a cached partition is served without
// consulting the data source.
const DefaultTTL = 10 * time.Minute

type partition struct {
	snapshot  []ListingDetail
	fetchedAt time.Time
}

// ActiveListingsCache coordinates reads of active listings by operation type.
// Each operation type owns one partition holding the last snapshot and its
// fetch time. Stale data is never served: an expired partition always goes to
// the source, and a source failure propagates instead of falling back.
//
// Two concurrent misses for the same partition may both fetch; the fetches are
// idempotent reads and the last write wins.
type ActiveListingsCache struct {
	source  ListingSource
	now     func() time.Time
	ttl     time.Duration
	logger  *logger.Logger
	metrics *metrics.Manager

	mu         sync.Mutex
	partitions map[domain.OperationType]partition
}

func NewActiveListingsCache(source ListingSource, clock func() time.Time, log *logger.Logger, m *metrics.Manager) *ActiveListingsCache {
	return &ActiveListingsCache{
		source:     source,
		now:        clock,
		ttl:        DefaultTTL,
		logger:     log.Named("ActiveListingsCache"),
		metrics:    m,
		partitions: make(map[domain.OperationType]partition),
	}
}

// FetchActive returns the active listings for an operation type, from the
// partition when fresh, from the source otherwise. An empty source result is a
// valid, cacheable snapshot; partition-key presence distinguishes it from
// "never fetched".
func (c *ActiveListingsCache) FetchActive(ctx context.Context, op domain.OperationType) ([]ListingDetail, error) {
	if !op.IsValid() {
		return nil, NewSourceError(KindValidation, "unknown operation type: "+string(op), nil)
	}

	now := c.now()

	c.mu.Lock()
	if p, ok := c.partitions[op]; ok && now.Sub(p.fetchedAt) < c.ttl {
		snapshot := copyDetails(p.snapshot)
		c.mu.Unlock()
		c.logger.Debug("FetchActive: cache hit",
			zap.String("operation_type", string(op)),
			zap.Int("count", len(snapshot)))
		if c.metrics != nil {
			c.metrics.CacheHitsTotal.WithLabelValues(string(op)).Inc()
		}
		return snapshot, nil
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(string(op)).Inc()
	}

	details, err := c.source.FetchActiveByOperationType(ctx, op)
	if err != nil {
		// The stale partition, if any, is deliberately left untouched and
		// never served as a fallback.
		c.logger.Warn("FetchActive: source fetch failed",
			zap.String("operation_type", string(op)),
			zap.Error(err))
		if c.metrics != nil {
			c.metrics.CacheRefreshFailuresTotal.WithLabelValues(string(op)).Inc()
		}
		return nil, err
	}

	c.mu.Lock()
	c.partitions[op] = partition{snapshot: copyDetails(details), fetchedAt: c.now()}
	c.mu.Unlock()

	c.logger.Debug("FetchActive: partition refreshed",
		zap.String("operation_type", string(op)),
		zap.Int("count", len(details)))
	return details, nil
}

// FetchDetail always consults the source; detail reads are never cached. A
// source success carrying no listing is normalized into a not-found error,
// distinct from transport failures.
func (c *ActiveListingsCache) FetchDetail(ctx context.Context, id string) (*ListingDetail, error) {
	detail, err := c.source.FetchDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, NewSourceError(KindNotFound, "no active listing with id "+id, nil)
	}
	return detail, nil
}

// Invalidate evicts one partition.
func (c *ActiveListingsCache) Invalidate(op domain.OperationType) {
	c.mu.Lock()
	delete(c.partitions, op)
	c.mu.Unlock()
	c.logger.Debug("Invalidate: partition evicted", zap.String("operation_type", string(op)))
}

// InvalidateAll evicts every partition.
func (c *ActiveListingsCache) InvalidateAll() {
	c.mu.Lock()
	c.partitions = make(map[domain.OperationType]partition)
	c.mu.Unlock()
	c.logger.Debug("InvalidateAll: cache cleared")
}

func copyDetails(in []ListingDetail) []ListingDetail {
	if in == nil {
		return []ListingDetail{}
	}
	out := make([]ListingDetail, len(in))
	copy(out, in)
	return out
}
