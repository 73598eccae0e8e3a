package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates indexes for frequently used fields in queries.
func (r *MongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Partial index: only bookings still waiting on a provider are scanned on start-up.
	awaitingOpts := options.Index().SetPartialFilterExpression(bson.M{
		"providerResponseStatus": "awaiting_response",
	})

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "hotelVillaId", Value: 1}, {Key: "requestedAt", Value: -1}}},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "requestedAt", Value: -1}}},
		{Keys: bson.D{{Key: "confirmationDeadline", Value: 1}}, Options: awaitingOpts},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
