package providerRepo

import (
	"context"
	"fmt"
	"time"

	"livebooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultAlternativeLimit = 10

// FindAlternatives returns providers of the requested type that are available, serve hotels and villas,
// sit within MaxDistanceKm of Near and are not in ExcludeIDs. Results are nearest first, ties broken by id.
func (r *MongoProviderRepo) FindAlternatives(ctx context.Context, criteria AlternativeSearchCriteria) ([]models.Provider, error) {
	if !criteria.Near.Valid() {
		return nil, fmt.Errorf("invalid search center coordinates")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := alternativesPipeline(criteria)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregation query failed: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}

func alternativesPipeline(criteria AlternativeSearchCriteria) mongo.Pipeline {
	limit := criteria.Limit
	if limit <= 0 {
		limit = defaultAlternativeLimit
	}
	// $nin rejects null, so always send an array.
	exclude := append([]string{}, criteria.ExcludeIDs...)

	query := bson.M{
		"providerType":            criteria.ProviderType,
		"availabilityStatus":      models.AvailabilityAvailable,
		"hotelVillaServiceStatus": models.HotelServiceActive,
		"id":                      bson.M{"$nin": exclude},
	}

	return mongo.Pipeline{
		// $geoNear must come first to filter+sort by distance
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: criteria.Near.Coordinates},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: criteria.MaxDistanceKm * 1000},
			{Key: "query", Value: query},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "distance", Value: 1},
			{Key: "id", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
	}
}
