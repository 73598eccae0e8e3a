package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"livebooking/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Update applies the patch only when the stored version still equals expectedVersion.
func (r *MongoBookingRepo) Update(ctx context.Context, id string, expectedVersion int64, patch models.BookingPatch) error {
	return r.updateVersioned(ctx, id, expectedVersion, patchToSet(patch))
}

func (r *MongoBookingRepo) Cancel(ctx context.Context, id string, expectedVersion int64, reason, cancelledBy string, at time.Time) error {
	return r.updateVersioned(ctx, id, expectedVersion, bson.M{
		"status":       models.BookingStatusCancelled,
		"cancelReason": reason,
		"cancelledBy":  cancelledBy,
		"cancelledAt":  at,
	})
}

func (r *MongoBookingRepo) Complete(ctx context.Context, id string, expectedVersion int64, at time.Time) error {
	return r.updateVersioned(ctx, id, expectedVersion, bson.M{
		"status":      models.BookingStatusCompleted,
		"completedAt": at,
	})
}

func (r *MongoBookingRepo) updateVersioned(ctx context.Context, id string, expectedVersion int64, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set["updatedAt"] = time.Now().UTC()
	filter := bson.M{"id": id, "version": expectedVersion}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		// Either the booking is gone or someone else committed first.
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
		if err != nil {
			return fmt.Errorf("failed to check booking %s after version mismatch: %w", id, err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func patchToSet(p models.BookingPatch) bson.M {
	set := bson.M{}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.ProviderResponseStatus != nil {
		set["providerResponseStatus"] = *p.ProviderResponseStatus
	}
	if p.ProviderID != nil {
		set["providerId"] = *p.ProviderID
	}
	if p.ProviderName != nil {
		set["providerName"] = *p.ProviderName
	}
	if p.ConfirmationDeadline != nil {
		set["confirmationDeadline"] = *p.ConfirmationDeadline
	}
	if p.FallbackProviderIDs != nil {
		set["fallbackProviderIds"] = p.FallbackProviderIDs
	}
	if p.IsReassigned != nil {
		set["isReassigned"] = *p.IsReassigned
	}
	if p.ConfirmedAt != nil {
		set["confirmedAt"] = *p.ConfirmedAt
	}
	return set
}
