package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"livebooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoBookingRepo) ListAwaitingResponse(ctx context.Context) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"providerResponseStatus": models.ResponseAwaiting,
		"status":                 models.BookingStatusPending,
	}
	opts := options.Find().SetSort(bson.D{{Key: "confirmationDeadline", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoBookingRepo) ListByHotelVilla(ctx context.Context, hotelVillaID string, limit int64) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "requestedAt", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, bson.M{"hotelVillaId": hotelVillaID}, opts)
}

func (r *MongoBookingRepo) ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "requestedAt", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, bson.M{"providerId": providerID}, opts)
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("booking query failed: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
