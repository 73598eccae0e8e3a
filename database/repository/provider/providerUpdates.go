package providerRepo

import (
	"context"
	"fmt"
	"time"

	"livebooking/models"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *MongoProviderRepo) SetAvailability(ctx context.Context, id string, status models.AvailabilityStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{
		"availabilityStatus": status,
		"updatedAt":          time.Now().UTC(),
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update availability of provider %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
