package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/listing/query"
	"github.com/inmuebla/listing-service/internal/platform/logger"
)

// ListingSource implements query.ListingSource on the listings collection.
// "Active" means status active with expires_at in the future; expiry is
// computed on read, no stored transition exists.
type ListingSource struct {
	collection *mongo.Collection
	now        func() time.Time
	logger     *logger.Logger
}

func NewListingSource(db *mongo.Database, clock func() time.Time, log *logger.Logger) *ListingSource {
	return &ListingSource{
		collection: db.Collection("listings"),
		now:        clock,
		logger:     log.Named("ListingSource"),
	}
}

func (s *ListingSource) FetchActiveByOperationType(ctx context.Context, op domain.OperationType) ([]query.ListingDetail, error) {
	filter := bson.M{
		"status":         string(domain.StatusActive),
		"operation_type": string(op),
		"expires_at":     bson.M{"$gt": s.now()},
	}

	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		s.logger.Error("FetchActiveByOperationType failed", zap.String("operation_type", string(op)), zap.Error(err))
		return nil, classifySourceErr(err, "fetching active listings")
	}
	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classifySourceErr(err, "decoding active listings")
	}

	details := make([]query.ListingDetail, 0, len(docs))
	for i := range docs {
		details = append(details, toListingDetail(&docs[i]))
	}
	return details, nil
}

func (s *ListingSource) FetchDetailByID(ctx context.Context, id string) (*query.ListingDetail, error) {
	filter := bson.M{
		"_id":        id,
		"status":     string(domain.StatusActive),
		"expires_at": bson.M{"$gt": s.now()},
	}

	var doc listingDocument
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Absent, not an error; the cache layer normalizes this.
		return nil, nil
	}
	if err != nil {
		s.logger.Error("FetchDetailByID failed", zap.String("listing_id", id), zap.Error(err))
		return nil, classifySourceErr(err, "fetching listing detail")
	}
	detail := toListingDetail(&doc)
	return &detail, nil
}

func classifySourceErr(err error, op string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return query.NewSourceError(query.KindNetwork, op+" timed out", err)
	case mongo.IsNetworkError(err):
		return query.NewSourceError(query.KindNetwork, op+" hit a network failure", err)
	case mongo.IsTimeout(err):
		return query.NewSourceError(query.KindServiceUnavailable, op+" timed out server-side", err)
	default:
		return query.NewSourceError(query.KindUnknown, op+" failed", err)
	}
}
