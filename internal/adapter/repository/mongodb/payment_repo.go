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

type PaymentRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewPaymentRepository(db *mongo.Database, log *logger.Logger) *PaymentRepository {
	return &PaymentRepository{
		collection: db.Collection("payments"),
		logger:     log.Named("PaymentRepository"),
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	_, err := r.collection.InsertOne(ctx, toPaymentDocument(payment))
	if err != nil {
		r.logger.Error("Create failed", zap.String("payment_id", payment.ID), zap.Error(err))
	}
	return err
}

func (r *PaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	res, err := r.collection.UpdateByID(ctx, payment.ID, bson.M{"$set": toPaymentDocument(payment)})
	if err != nil {
		r.logger.Error("Update failed", zap.String("payment_id", payment.ID), zap.Error(err))
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	var doc paymentDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainPayment(&doc), nil
}
