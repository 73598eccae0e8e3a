package providerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates indexes for frequently used fields in queries.
func (r *MongoProviderRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Compound geo + type + availability, used by the fallback search.
	geoCompoundIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "locationGeo", Value: "2dsphere"},
			{Key: "providerType", Value: 1},
			{Key: "availabilityStatus", Value: 1},
		},
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "hotelVillaServiceStatus", Value: 1}}},
		geoCompoundIdx,
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
