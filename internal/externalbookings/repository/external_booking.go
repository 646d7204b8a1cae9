package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	externalerrors "staywise/internal/externalbookings/errors"
	"staywise/pkg/config"
	"staywise/pkg/model"
)

const CollectionName = "external_bookings"

type ExternalBookingRepository interface {
	Create(ctx context.Context, booking *model.ExternalBooking) error
	FindByID(ctx context.Context, id string) (*model.ExternalBooking, error)
	FindByUser(ctx context.Context, userID string) ([]*model.ExternalBooking, error)
	FindByAdmin(ctx context.Context, adminID string) ([]*model.ExternalBooking, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

type mongoExternalBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoExternalBookingRepository(cfg *config.Config) ExternalBookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoExternalBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoExternalBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoExternalBookingRepository) Create(ctx context.Context, booking *model.ExternalBooking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create external booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoExternalBookingRepository) FindByID(ctx context.Context, id string) (*model.ExternalBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", externalerrors.ErrInvalidID, id)
	}

	var booking model.ExternalBooking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, externalerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find external booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoExternalBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.ExternalBooking, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *mongoExternalBookingRepository) FindByAdmin(ctx context.Context, adminID string) ([]*model.ExternalBooking, error) {
	return r.find(ctx, bson.M{"admin_id": adminID})
}

func (r *mongoExternalBookingRepository) find(ctx context.Context, filter bson.M) ([]*model.ExternalBooking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find external bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.ExternalBooking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode external bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoExternalBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", externalerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update external booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		return externalerrors.ErrNotFound
	}

	return nil
}
