package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/inmuebla/listing-service/internal/listing/domain"
	"github.com/inmuebla/listing-service/internal/platform/logger"
)

// ListingRepository persists listings together with their property documents.
type ListingRepository struct {
	listings   *mongo.Collection
	properties *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		listings:   db.Collection("listings"),
		properties: db.Collection("properties"),
		logger:     log.Named("ListingRepository"),
	}
}

// CreateWithProperty stores the property and the listing as one logical unit
// inside a session transaction.
func (r *ListingRepository) CreateWithProperty(ctx context.Context, listing *domain.Listing, property *domain.Property) error {
	session, err := r.listings.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.properties.InsertOne(sc, toPropertyDocument(property)); err != nil {
			return nil, err
		}
		if _, err := r.listings.InsertOne(sc, toListingDocument(listing, property)); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		r.logger.Error("CreateWithProperty failed",
			zap.String("listing_id", listing.ID),
			zap.String("property_id", property.ID),
			zap.Error(err))
		return err
	}
	return nil
}

// Update rewrites the listing's own fields; the denormalized property summary
// is immutable after creation.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	update := bson.M{"$set": bson.M{
		"title":        listing.Title,
		"description":  listing.Description,
		"price":        priceDocument{Amount: listing.Price.Amount, Currency: listing.Price.Currency},
		"contact":      toContactDocument(listing.Contact),
		"photos":       listing.Photos,
		"status":       string(listing.Status),
		"published_at": listing.PublishedAt,
		"expires_at":   listing.ExpiresAt,
		"updated_at":   listing.UpdatedAt,
	}}
	res, err := r.listings.UpdateByID(ctx, listing.ID, update)
	if err != nil {
		r.logger.Error("Update failed", zap.String("listing_id", listing.ID), zap.Error(err))
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var doc listingDocument
	err := r.listings.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainListing(&doc), nil
}

// OwnsListing resolves ownership for the workflow layer.
func (r *ListingRepository) OwnsListing(ctx context.Context, userID, listingID string) (bool, error) {
	count, err := r.listings.CountDocuments(ctx, bson.M{"_id": listingID, "owner_id": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
