package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"livebooking/config"
	bookingRepo "livebooking/database/repository/booking"
	"livebooking/models"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Policy holds the timing and search limits applied to live bookings.
type Policy struct {
	ConfirmationWindow time.Duration
	MinAdvanceNotice   time.Duration
	MaxAdvance         time.Duration
	DefaultRadiusKm    float64
	ListLimit          int64
}

func DefaultPolicy() Policy {
	return Policy{
		ConfirmationWindow: 25 * time.Minute,
		MinAdvanceNotice:   time.Hour,
		MaxAdvance:         30 * 24 * time.Hour,
		DefaultRadiusKm:    10,
		ListLimit:          50,
	}
}

// PolicyFromConfig overrides the defaults with any positive configured value.
func PolicyFromConfig(cfg config.Config) Policy {
	p := DefaultPolicy()
	if w := cfg.ConfirmationWindow(); w > 0 {
		p.ConfirmationWindow = w
	}
	if n := cfg.MinAdvanceNotice(); n > 0 {
		p.MinAdvanceNotice = n
	}
	if m := cfg.MaxAdvance(); m > 0 {
		p.MaxAdvance = m
	}
	if cfg.DefaultServiceRadiusKm > 0 {
		p.DefaultRadiusKm = cfg.DefaultServiceRadiusKm
	}
	return p
}

type Option func(*DefaultBookingOrchestrator)

func WithClock(c clock.Clock) Option {
	return func(o *DefaultBookingOrchestrator) { o.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *DefaultBookingOrchestrator) { o.logger = l }
}

func WithPolicy(p Policy) Option {
	return func(o *DefaultBookingOrchestrator) { o.policy = p }
}

// WithDeadlineScheduler replaces the in-process timer registry, e.g. with the queue-backed scheduler.
func WithDeadlineScheduler(s DeadlineScheduler) Option {
	return func(o *DefaultBookingOrchestrator) { o.deadlines = s }
}

// DefaultBookingOrchestrator implements BookingOrchestrator on top of a Store.
type DefaultBookingOrchestrator struct {
	store     Store
	notifier  Notifier
	deadlines DeadlineScheduler
	clock     clock.Clock
	logger    *zap.Logger
	policy    Policy
}

func NewBookingOrchestrator(store Store, notifier Notifier, opts ...Option) (*DefaultBookingOrchestrator, error) {
	if store == nil || notifier == nil {
		return nil, fmt.Errorf("booking orchestrator initialization error: store or notifier is nil")
	}
	o := &DefaultBookingOrchestrator{
		store:    store,
		notifier: notifier,
		clock:    clock.New(),
		logger:   zap.NewNop(),
		policy:   DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.deadlines == nil {
		o.deadlines = NewTimerRegistry(o.clock, o.HandleTimeout, o.logger)
	}
	return o, nil
}

// Deadlines exposes the scheduler in use.
func (o *DefaultBookingOrchestrator) Deadlines() DeadlineScheduler {
	return o.deadlines
}

func (o *DefaultBookingOrchestrator) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	now := o.clock.Now()
	if err := o.validateRequest(req, now); err != nil {
		o.logger.Info("Rejected live booking request",
			zap.String("hotelVillaId", req.HotelVillaID),
			zap.Error(err))
		return nil, err
	}

	radius := req.ServiceRadiusKm
	if radius <= 0 {
		radius = o.policy.DefaultRadiusKm
	}

	b := &models.Booking{
		ID:                     uuid.New().String(),
		HotelVillaID:           req.HotelVillaID,
		HotelVillaName:         req.HotelVillaName,
		GuestName:              req.GuestName,
		RoomNumber:             req.RoomNumber,
		GuestLanguage:          req.GuestLanguage,
		ChargeToRoom:           req.ChargeToRoom,
		ServiceDurationMin:     req.ServiceDurationMin,
		StartTime:              req.StartTime,
		ProviderID:             req.ProviderID,
		ProviderName:           req.ProviderName,
		ProviderType:           req.ProviderType,
		Status:                 models.BookingStatusPending,
		ProviderResponseStatus: models.ResponseAwaiting,
		ConfirmationDeadline:   now.Add(o.policy.ConfirmationWindow),
		FallbackProviderIDs:    []string{req.ProviderID},
		ServiceRadiusKm:        radius,
		RequestedAt:            now,
		UpdatedAt:              now,
	}

	if err := o.store.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create live booking: %w", err)
	}

	o.logger.Info("Live booking created",
		zap.String("bookingId", b.ID),
		zap.String("providerId", b.ProviderID),
		zap.Time("deadline", b.ConfirmationDeadline))

	o.arm(ctx, b)
	o.notify(ctx, models.EventBookingCreated, b)
	return b, nil
}

func (o *DefaultBookingOrchestrator) ConfirmBooking(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	b, err := o.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkAssigned(b, providerID); err != nil {
		return nil, err
	}
	if b.ProviderResponseStatus != models.ResponseAwaiting || b.Status != models.BookingStatusPending {
		return nil, newStaleError(b.ID, "provider response is already %s", b.ProviderResponseStatus)
	}

	o.disarm(ctx, b.ID)

	now := o.clock.Now()
	status := models.BookingStatusConfirmed
	response := models.ResponseConfirmed
	if err := o.update(ctx, b, models.BookingPatch{
		Status:                 &status,
		ProviderResponseStatus: &response,
		ConfirmedAt:            &now,
	}); err != nil {
		o.restoreDeadline(ctx, b.ID)
		return nil, err
	}

	o.setAvailability(ctx, b.ProviderID, models.AvailabilityBusy)
	o.notify(ctx, models.EventBookingConfirmed, b)
	return b, nil
}

func (o *DefaultBookingOrchestrator) SetOnTheWay(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	b, err := o.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkAssigned(b, providerID); err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusConfirmed {
		return nil, newStaleError(b.ID, "booking is %s, expected %s", b.Status, models.BookingStatusConfirmed)
	}

	o.disarm(ctx, b.ID)

	status := models.BookingStatusOnTheWay
	if err := o.update(ctx, b, models.BookingPatch{Status: &status}); err != nil {
		return nil, err
	}
	o.notify(ctx, models.EventProviderOnTheWay, b)
	return b, nil
}

func (o *DefaultBookingOrchestrator) StartService(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	b, err := o.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkAssigned(b, providerID); err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusConfirmed && b.Status != models.BookingStatusOnTheWay {
		return nil, newStaleError(b.ID, "service cannot start while booking is %s", b.Status)
	}

	status := models.BookingStatusInProgress
	if err := o.update(ctx, b, models.BookingPatch{Status: &status}); err != nil {
		return nil, err
	}
	o.notify(ctx, models.EventServiceStarted, b)
	return b, nil
}

// DeclineBooking records the refusal and runs the fallback search right away instead of waiting for the deadline.
func (o *DefaultBookingOrchestrator) DeclineBooking(ctx context.Context, bookingID, providerID string) (*models.Booking, error) {
	b, err := o.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkAssigned(b, providerID); err != nil {
		return nil, err
	}
	if b.ProviderResponseStatus != models.ResponseAwaiting || b.Status != models.BookingStatusPending {
		return nil, newStaleError(b.ID, "provider response is already %s", b.ProviderResponseStatus)
	}

	o.disarm(ctx, b.ID)

	response := models.ResponseDeclined
	if err := o.update(ctx, b, models.BookingPatch{ProviderResponseStatus: &response}); err != nil {
		o.restoreDeadline(ctx, b.ID)
		return nil, err
	}
	o.logger.Info("Provider declined live booking",
		zap.String("bookingId", b.ID),
		zap.String("providerId", b.ProviderID))
	o.notify(ctx, models.EventBookingDeclined, b)

	return o.reassign(ctx, b.ID)
}

func (o *DefaultBookingOrchestrator) CompleteBooking(ctx context.Context, bookingID, providerID string, providerType models.ProviderType) (*models.Booking, error) {
	b, err := o.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkAssigned(b, providerID); err != nil {
		return nil, err
	}
	if providerType != "" && providerType != b.ProviderType {
		return nil, NewValidationError("providerType", fmt.Sprintf("booking is assigned to a %s", b.ProviderType))
	}
	if b.Status != models.BookingStatusInProgress && b.Status != models.BookingStatusOnTheWay {
		return nil, newStaleError(b.ID, "booking is %s, service has not started", b.Status)
	}

	now := o.clock.Now()
	if err := o.mapWriteErr(b.ID, o.store.CompleteBooking(ctx, b.ID, b.Version, now)); err != nil {
		return nil, err
	}
	b.Status = models.BookingStatusCompleted
	b.CompletedAt = &now
	b.Version++
	b.UpdatedAt = now

	o.setAvailability(ctx, b.ProviderID, models.AvailabilityAvailable)
	o.notify(ctx, models.EventBookingCompleted, b)
	return b, nil
}

// CancelBooking is the manual cancellation path used by the hotel, the guest or an admin.
func (o *DefaultBookingOrchestrator) CancelBooking(ctx context.Context, bookingID, reason, cancelledBy string) (*models.Booking, error) {
	switch cancelledBy {
	case models.CancelledByHotel, models.CancelledByGuest, models.CancelledByAdmin:
	default:
		return nil, NewValidationError("cancelledBy", "must be one of hotel guest admin")
	}
	if reason == "" {
		reason = "Cancelled by " + cancelledBy
	}

	b, err := o.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusOnTheWay, models.BookingStatusTimedOut:
	default:
		return nil, newStaleError(b.ID, "booking is %s and can no longer be cancelled", b.Status)
	}

	o.disarm(ctx, b.ID)

	if err := o.cancel(ctx, b, reason, cancelledBy); err != nil {
		o.restoreDeadline(ctx, b.ID)
		return nil, err
	}

	if b.ProviderResponseStatus == models.ResponseConfirmed {
		o.setAvailability(ctx, b.ProviderID, models.AvailabilityAvailable)
	}
	o.notify(ctx, models.EventBookingCancelled, b)
	return b, nil
}

func (o *DefaultBookingOrchestrator) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return o.load(ctx, bookingID)
}

func (o *DefaultBookingOrchestrator) ListHotelVillaBookings(ctx context.Context, hotelVillaID string) ([]models.Booking, error) {
	if hotelVillaID == "" {
		return nil, NewValidationError("hotelVillaId", "is required")
	}
	bookings, err := o.store.ListBookingsByHotelVilla(ctx, hotelVillaID, o.policy.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for hotel/villa %s: %w", hotelVillaID, err)
	}
	return bookings, nil
}

func (o *DefaultBookingOrchestrator) ListProviderBookings(ctx context.Context, providerID string) ([]models.Booking, error) {
	if providerID == "" {
		return nil, NewValidationError("providerId", "is required")
	}
	bookings, err := o.store.ListBookingsByProvider(ctx, providerID, o.policy.ListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for provider %s: %w", providerID, err)
	}
	return bookings, nil
}

// HandleTimeout re-reads the booking and only acts if it is still waiting on the same
// deadline that just passed. Anything else means the timer lost a race and the call is a no-op.
func (o *DefaultBookingOrchestrator) HandleTimeout(ctx context.Context, bookingID string) error {
	b, err := o.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.ProviderResponseStatus != models.ResponseAwaiting || b.Status != models.BookingStatusPending {
		o.logger.Debug("Deadline fired after provider responded, ignoring",
			zap.String("bookingId", b.ID),
			zap.String("providerResponseStatus", string(b.ProviderResponseStatus)))
		return nil
	}

	now := o.clock.Now()
	if now.Before(b.ConfirmationDeadline) {
		// Fired early, e.g. a queue backend with coarser resolution. Wait out the remainder.
		o.arm(ctx, b)
		return nil
	}

	status := models.BookingStatusTimedOut
	response := models.ResponseTimedOut
	if err := o.update(ctx, b, models.BookingPatch{
		Status:                 &status,
		ProviderResponseStatus: &response,
	}); err != nil {
		if IsStale(err) {
			o.logger.Info("Deadline lost race with a provider response",
				zap.String("bookingId", b.ID))
			return nil
		}
		return err
	}

	o.logger.Info("Provider response deadline passed",
		zap.String("bookingId", b.ID),
		zap.String("providerId", b.ProviderID))
	o.notify(ctx, models.EventBookingTimedOut, b)

	_, err = o.reassign(ctx, b.ID)
	return err
}

// ResumeDeadlines re-arms every booking still awaiting a response. Overdue deadlines fire immediately.
func (o *DefaultBookingOrchestrator) ResumeDeadlines(ctx context.Context) (int, error) {
	bookings, err := o.store.ListBookingsAwaitingResponse(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list bookings awaiting response: %w", err)
	}
	for i := range bookings {
		o.arm(ctx, &bookings[i])
	}
	o.logger.Info("Resumed live booking deadlines", zap.Int("count", len(bookings)))
	return len(bookings), nil
}

func (o *DefaultBookingOrchestrator) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	if bookingID == "" {
		return nil, NewValidationError("bookingId", "is required")
	}
	b, err := o.store.GetBookingByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		o.logger.Warn("Live booking not found", zap.String("bookingId", bookingID))
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	return b, nil
}

// update writes patch with b's version as the precondition and mirrors it onto b.
func (o *DefaultBookingOrchestrator) update(ctx context.Context, b *models.Booking, patch models.BookingPatch) error {
	if err := o.mapWriteErr(b.ID, o.store.UpdateBooking(ctx, b.ID, b.Version, patch)); err != nil {
		return err
	}
	b.Apply(patch)
	b.Version++
	b.UpdatedAt = o.clock.Now()
	return nil
}

func (o *DefaultBookingOrchestrator) cancel(ctx context.Context, b *models.Booking, reason, cancelledBy string) error {
	now := o.clock.Now()
	if err := o.mapWriteErr(b.ID, o.store.CancelBooking(ctx, b.ID, b.Version, reason, cancelledBy, now)); err != nil {
		return err
	}
	b.Status = models.BookingStatusCancelled
	b.CancelReason = reason
	b.CancelledBy = cancelledBy
	b.CancelledAt = &now
	b.Version++
	b.UpdatedAt = now
	return nil
}

func (o *DefaultBookingOrchestrator) mapWriteErr(bookingID string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bookingRepo.ErrVersionConflict):
		return newStaleError(bookingID, "booking was modified concurrently")
	case errors.Is(err, bookingRepo.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	default:
		return fmt.Errorf("failed to update booking %s: %w", bookingID, err)
	}
}

func checkAssigned(b *models.Booking, providerID string) error {
	if providerID == "" {
		return NewValidationError("providerId", "is required")
	}
	if providerID != b.ProviderID {
		return newStaleError(b.ID, "provider %s is no longer assigned", providerID)
	}
	return nil
}

func (o *DefaultBookingOrchestrator) arm(ctx context.Context, b *models.Booking) {
	if err := o.deadlines.Arm(ctx, b.ID, b.ConfirmationDeadline); err != nil {
		o.logger.Error("Failed to arm confirmation deadline",
			zap.String("bookingId", b.ID),
			zap.Time("deadline", b.ConfirmationDeadline),
			zap.Error(err))
	}
}

func (o *DefaultBookingOrchestrator) disarm(ctx context.Context, bookingID string) {
	if err := o.deadlines.Disarm(ctx, bookingID); err != nil {
		o.logger.Warn("Failed to disarm confirmation deadline",
			zap.String("bookingId", bookingID),
			zap.Error(err))
	}
}

// restoreDeadline re-arms the deadline after a failed write, if the stored booking still waits on a provider.
func (o *DefaultBookingOrchestrator) restoreDeadline(ctx context.Context, bookingID string) {
	current, err := o.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		o.logger.Error("Could not re-read booking after failed write",
			zap.String("bookingId", bookingID),
			zap.Error(err))
		return
	}
	if current.Status == models.BookingStatusPending && current.ProviderResponseStatus == models.ResponseAwaiting {
		o.arm(ctx, current)
	}
}

func (o *DefaultBookingOrchestrator) setAvailability(ctx context.Context, providerID string, status models.AvailabilityStatus) {
	if err := o.store.SetProviderAvailability(ctx, providerID, status); err != nil {
		o.logger.Warn("Failed to update provider availability",
			zap.String("providerId", providerID),
			zap.String("availability", string(status)),
			zap.Error(err))
	}
}

func (o *DefaultBookingOrchestrator) notify(ctx context.Context, event models.NotificationEvent, b *models.Booking) {
	if err := o.notifier.Notify(ctx, event, *b); err != nil {
		o.logger.Warn("Notification dispatch failed",
			zap.String("event", string(event)),
			zap.String("bookingId", b.ID),
			zap.Error(err))
	}
}
