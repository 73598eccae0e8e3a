package venueRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"livebooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVenueRepo implements VenueRepository using MongoDB.
type MongoVenueRepo struct {
	coll *mongo.Collection
}

// NewMongoVenueRepo creates a new instance of VenueRepository on the "hotelVillas" collection.
func NewMongoVenueRepo(db *mongo.Database) *MongoVenueRepo {
	return &MongoVenueRepo{coll: db.Collection("hotelVillas")}
}

func (r *MongoVenueRepo) GetByID(ctx context.Context, id string) (*models.HotelVilla, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var venue models.HotelVilla
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&venue); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch hotel/villa with id %s: %w", id, err)
	}
	return &venue, nil
}

func (r *MongoVenueRepo) Create(ctx context.Context, venue *models.HotelVilla) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if venue.CreatedAt.IsZero() {
		venue.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, venue); err != nil {
		return fmt.Errorf("failed to create hotel/villa: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique id index.
func (r *MongoVenueRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create hotel/villa indexes: %w", err)
	}
	return nil
}
