package booking

import (
	"context"
	"fmt"

	"livebooking/models"

	"go.uber.org/zap"
)

// reassign hands a declined or timed-out booking to the nearest untried provider, or cancels it
// when the search comes back empty. Every pass adds one new id to FallbackProviderIDs, so the
// chain ends after at most one pass per eligible provider.
func (o *DefaultBookingOrchestrator) reassign(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := o.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() || b.ProviderResponseStatus == models.ResponseAwaiting || b.ProviderResponseStatus == models.ResponseConfirmed {
		o.logger.Debug("Booking no longer needs a fallback provider",
			zap.String("bookingId", b.ID),
			zap.String("status", string(b.Status)))
		return b, nil
	}

	exclude := append([]string(nil), b.FallbackProviderIDs...)
	candidates, err := o.store.FindAlternativeProviders(ctx, b.HotelVillaID, exclude, b.ProviderType, b.ServiceRadiusKm)
	if err != nil {
		return nil, fmt.Errorf("fallback search for booking %s failed: %w", b.ID, err)
	}

	next := firstUntried(b, candidates)
	if next == nil {
		return o.exhaust(ctx, b)
	}

	deadline := o.clock.Now().Add(o.policy.ConfirmationWindow)
	status := models.BookingStatusPending
	response := models.ResponseAwaiting
	reassigned := true
	tried := append(append([]string(nil), b.FallbackProviderIDs...), next.ID)
	if err := o.update(ctx, b, models.BookingPatch{
		Status:                 &status,
		ProviderResponseStatus: &response,
		ProviderID:             &next.ID,
		ProviderName:           &next.Name,
		ConfirmationDeadline:   &deadline,
		FallbackProviderIDs:    tried,
		IsReassigned:           &reassigned,
	}); err != nil {
		return nil, err
	}

	o.logger.Info("Live booking reassigned",
		zap.String("bookingId", b.ID),
		zap.String("providerId", next.ID),
		zap.Int("attempt", len(b.FallbackProviderIDs)),
		zap.Time("deadline", deadline))

	o.arm(ctx, b)
	o.notify(ctx, models.EventBookingReassigned, b)
	return b, nil
}

func (o *DefaultBookingOrchestrator) exhaust(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if err := o.cancel(ctx, b, NoProvidersReason, models.CancelledBySystem); err != nil {
		return nil, err
	}
	o.logger.Warn("No providers left for live booking",
		zap.String("bookingId", b.ID),
		zap.Strings("tried", b.FallbackProviderIDs))
	o.notify(ctx, models.EventNoProvidersAvailable, b)
	return b, nil
}

// firstUntried keeps the store's ordering and skips anything already tried.
func firstUntried(b *models.Booking, candidates []models.Provider) *models.Provider {
	for i := range candidates {
		if candidates[i].ID == "" || b.HasTried(candidates[i].ID) {
			continue
		}
		return &candidates[i]
	}
	return nil
}
