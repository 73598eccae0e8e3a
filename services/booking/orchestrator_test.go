package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"livebooking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingOrchestrator_RequiresDependencies(t *testing.T) {
	_, err := NewBookingOrchestrator(nil, &fakeNotifier{})
	assert.Error(t, err)

	_, err = NewBookingOrchestrator(newFakeStore(), nil)
	assert.Error(t, err)
}

func TestCreateBooking_PersistsPendingAndArmsDeadline(t *testing.T) {
	h := newHarness(t, "T1")

	b := h.create(t, "T1")

	stored := h.store.get(b.ID)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.Equal(t, models.ResponseAwaiting, stored.ProviderResponseStatus)
	assert.Equal(t, []string{"T1"}, stored.FallbackProviderIDs)
	assert.Equal(t, baseTime.Add(25*time.Minute), stored.ConfirmationDeadline)
	assert.Equal(t, 10.0, stored.ServiceRadiusKm)
	assert.Equal(t, int64(1), stored.Version)
	assert.True(t, h.orch.Deadlines().Armed(b.ID))
	assert.Equal(t, []models.NotificationEvent{models.EventBookingCreated}, h.notifier.sent())
}

func TestCreateBooking_NotificationFailureDoesNotFailCreation(t *testing.T) {
	h := newHarness(t, "T1")
	h.notifier.err = errors.New("fcm unavailable")

	b, err := h.orch.CreateBooking(context.Background(), h.request("T1"))
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.count())
	assert.True(t, h.orch.Deadlines().Armed(b.ID))
}

// Scenario 1.
func TestConfirmBooking_WithinWindow(t *testing.T) {
	h := newHarness(t, "T1")
	b := h.create(t, "T1")

	h.clock.Add(10 * time.Minute)
	confirmed, err := h.orch.ConfirmBooking(context.Background(), b.ID, "T1")
	require.NoError(t, err)

	stored := h.store.get(b.ID)
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
	assert.Equal(t, models.ResponseConfirmed, stored.ProviderResponseStatus)
	assert.Equal(t, []string{"T1"}, stored.FallbackProviderIDs)
	require.NotNil(t, stored.ConfirmedAt)
	assert.Equal(t, baseTime.Add(10*time.Minute), *stored.ConfirmedAt)
	assert.Equal(t, stored.Version, confirmed.Version)
	assert.False(t, h.orch.Deadlines().Armed(b.ID))
	assert.Equal(t, models.AvailabilityBusy, h.store.availability("T1"))
	assert.Contains(t, h.notifier.sent(), models.EventBookingConfirmed)

	// The cancelled timer must never fire.
	h.clock.Add(time.Hour)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, models.BookingStatusConfirmed, h.store.get(b.ID).Status)
}

func TestConfirmBooking_AvailabilityFailureIsSwallowed(t *testing.T) {
	h := newHarness(t, "T1")
	b := h.create(t, "T1")
	h.store.failAvailability = errors.New("mongo timeout")

	_, err := h.orch.ConfirmBooking(context.Background(), b.ID, "T1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, h.store.get(b.ID).Status)
}

func TestConfirmBooking_Twice(t *testing.T) {
	h := newHarness(t, "T1")
	b := h.create(t, "T1")

	_, err := h.orch.ConfirmBooking(context.Background(), b.ID, "T1")
	require.NoError(t, err)

	_, err = h.orch.ConfirmBooking(context.Background(), b.ID, "T1")
	assert.True(t, IsStale(err))
}

func TestConfirmBooking_NotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.orch.ConfirmBooking(context.Background(), "missing", "T1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirmBooking_VersionConflictIsStaleAndKeepsDeadline(t *testing.T) {
	h := newHarness(t, "T1")
	b := h.create(t, "T1")
	h.store.beforeUpdate = func(id string) {
		h.store.beforeUpdate = nil
		h.store.bumpVersion(id)
	}

	_, err := h.orch.ConfirmBooking(context.Background(), b.ID, "T1")
	require.Error(t, err)
	var stale *StaleBookingError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, b.ID, stale.BookingID)

	assert.Equal(t, models.ResponseAwaiting, h.store.get(b.ID).ProviderResponseStatus)
	assert.True(t, h.orch.Deadlines().Armed(b.ID))
}

func TestConfirmBooking_StoreFailurePropagatesAndRearms(t *testing.T) {
	h := newHarness(t, "T1")
	b := h.create(t, "T1")
	h.store.failUpdate = errors.New("connection reset")

	_, err := h.orch.ConfirmBooking(context.Background(), b.ID, "T1")
	require.Error(t, err)
	assert.False(t, IsStale(err))
	assert.True(t, h.orch.Deadlines().Armed(b.ID))
}

// Scenario 2.
func TestDeclineBooking_ReassignsToNearestCandidate(t *testing.T) {
	h := newHarness(t, "T1", "T2", "T3")
	b := h.create(t, "T1")

	h.clock.Add(5 * time.Minute)
	reassigned, err := h.orch.DeclineBooking(context.Background(), b.ID, "T1")
	require.NoError(t, err)

	stored := h.store.get(b.ID)
	assert.Equal(t, "T2", stored.ProviderID)
	assert.Equal(t, "Provider T2", stored.ProviderName)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.Equal(t, models.ResponseAwaiting, stored.ProviderResponseStatus)
	assert.Equal(t, []string{"T1", "T2"}, stored.FallbackProviderIDs)
	assert.Equal(t, baseTime.Add(30*time.Minute), stored.ConfirmationDeadline)
	assert.True(t, stored.IsReassigned)
	assert.Equal(t, stored.Version, reassigned.Version)
	assert.True(t, h.orch.Deadlines().Armed(b.ID))
	assert.Equal(t, [][]string{{"T1"}}, h.store.searches)
	assert.Equal(t, []models.NotificationEvent{
		models.EventBookingCreated,
		models.EventBookingDeclined,
		models.EventBookingReassigned,
	}, h.notifier.sent())
}

func TestDeclineBooking_WrongProviderIsStale(t *testing.T) {
	h := newHarness(t, "T1", "T2")
	b := h.create(t, "T1")

	_, err := h.orch.DeclineBooking(context.Background(), b.ID, "T2")
	assert.True(t, IsStale(err))
	assert.Equal(t, int64(1), h.store.get(b.ID).Version)
}

func TestDeclineBooking_SkipsTriedCandidatesReturnedByStore(t *testing.T) {
	h := newHarness(t, "T1", "T2")
	h.store.ignoreExclude = true
	b := h.create(t, "T1")

	_, err := h.orch.DeclineBooking(context.Background(), b.ID, "T1")
	require.NoError(t, err)
	assert.Equal(t, "T2", h.store.get(b.ID).ProviderID)
}

func TestDeclineBooking_NoCandidatesCancels(t *testing.T) {
	h := newHarness(t, "T1")
	b := h.create(t, "T1")

	result, err := h.orch.DeclineBooking(context.Background(), b.ID, "T1")
	require.NoError(t, err)

	stored := h.store.get(b.ID)
	assert.Equal(t, models.BookingStatusCancelled, stored.Status)
	assert.Equal(t, models.ResponseDeclined, stored.ProviderResponseStatus)
	assert.Equal(t, NoProvidersReason, stored.CancelReason)
	assert.Equal(t, models.CancelledBySystem, stored.CancelledBy)
	assert.Equal(t, models.BookingStatusCancelled, result.Status)
	assert.False(t, h.orch.Deadlines().Armed(b.ID))
	assert.True(t, h.notifier.has(models.EventNoProvidersAvailable))
}

func TestDeclineBooking_SearchFailurePropagates(t *testing.T) {
	h := newHarness(t, "T1", "T2")
	h.store.venues = map[string]bool{}
	b := h.create(t, "T1")

	_, err := h.orch.DeclineBooking(context.Background(), b.ID, "T1")
	require.Error(t, err)

	// Left in its last durable state.
	stored := h.store.get(b.ID)
	assert.Equal(t, models.ResponseDeclined, stored.ProviderResponseStatus)
	assert.Equal(t, "T1", stored.ProviderID)
}

// Scenario 3.
func TestTimeout_AfterReassignmentExhaustsCandidates(t *testing.T) {
	h := newHarness(t, "T1", "T2", "T3")
	b := h.create(t, "T1")

	_, err := h.orch.DeclineBooking(context.Background(), b.ID, "T1")
	require.NoError(t, err)
	h.store.setAvailability("T3", models.AvailabilityOffline)

	h.expire(t, b.ID, func(b models.Booking) bool { return b.Status == models.BookingStatusCancelled })

	stored := h.store.get(b.ID)
	assert.Equal(t, []string{"T1", "T2"}, stored.FallbackProviderIDs)
	assert.Equal(t, models.ResponseTimedOut, stored.ProviderResponseStatus)
	assert.Equal(t, NoProvidersReason, stored.CancelReason)
	require.Eventually(t, func() bool { return h.notifier.has(models.EventNoProvidersAvailable) }, time.Second, 5*time.Millisecond)
	assert.True(t, h.notifier.has(models.EventBookingTimedOut))
	assert.False(t, h.orch.Deadlines().Armed(b.ID))
}

func TestTimeout_ReassignsAndRestartsWindow(t *testing.T) {
	h := newHarness(t, "T1", "T2")
	b := h.create(t, "T1")

	h.expire(t, b.ID, func(b models.Booking) bool { return b.ProviderID == "T2" })

	stored := h.store.get(b.ID)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.Equal(t, models.ResponseAwaiting, stored.ProviderResponseStatus)
	assert.Equal(t, []string{"T1", "T2"}, stored.FallbackProviderIDs)
	assert.True(t, stored.ConfirmationDeadline.After(baseTime.Add(49*time.Minute)))
	require.Eventually(t, func() bool { return h.orch.Deadlines().Armed(b.ID) }, time.Second, 5*time.Millisecond)
}

// Scenario 4.
func TestConfirmBooking_LateConfirmAfterReassignmentIsStale(t *testing.T) {
	h := newHarness(t, "T1", "T2")
	b := h.create(t, "T1")

	h.expire(t, b.ID, func(b models.Booking) bool { return b.ProviderID == "T2" })
	require.Eventually(t, func() bool { return h.notifier.has(models.EventBookingReassigned) }, time.Second, 5*time.Millisecond)
	before := h.store.get(b.ID)

	h.clock.Add(time.Second)
	_, err := h.orch.ConfirmBooking(context.Background(), b.ID, "T1")
	require.Error(t, err)
	assert.True(t, IsStale(err))

	assert.Equal(t, before, h.store.get(b.ID))
	assert.True(t, h.orch.Deadlines().Armed(b.ID))
}

// Scenario 5.
func TestCreateBooking_TooSoonIsRejected(t *testing.T) {
	h := newHarness(t, "T1")
	req := h.request("T1")
	req.StartTime = h.clock.Now().Add(30 * time.Minute)

	_, err := h.orch.CreateBooking(context.Background(), req)
	require.Error(t, err)
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "startTime", invalid.Field)
	assert.Equal(t, 0, h.store.count())
	assert.Empty(t, h.notifier.sent())
}

func TestHandleTimeout_EarlyFireRearms(t *testing.T) {
	h := newHarness(t, "T1", "T2")
	b := h.create(t, "T1")
	require.NoError(t, h.orch.Deadlines().Disarm(context.Background(), b.ID))

	require.NoError(t, h.orch.HandleTimeout(context.Background(), b.ID))

	stored := h.store.get(b.ID)
	assert.Equal(t, "T1", stored.ProviderID)
	assert.Equal(t, models.ResponseAwaiting, stored.ProviderResponseStatus)
	assert.True(t, h.orch.Deadlines().Armed(b.ID))
}

func TestHandleTimeout_MissingBooking(t *testing.T) {
	h := newHarness(t)
	err := h.orch.HandleTimeout(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestServiceLifecycle_CompleteReleasesProvider(t *testing.T) {
	h := newHarness(t, "T1")
	b := h.create(t, "T1")
	ctx := context.Background()

	_, err := h.orch.StartService(ctx, b.ID, "T1")
	assert.True(t, IsStale(err), "service cannot start before confirmation")

	_, err = h.orch.ConfirmBooking(ctx, b.ID, "T1")
	require.NoError(t, err)
	_, err = h.orch.CompleteBooking(ctx, b.ID, "T1", models.ProviderTypeTherapist)
	assert.True(t, IsStale(err), "completion requires the service to have started")

	_, err = h.orch.SetOnTheWay(ctx, b.ID, "T1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusOnTheWay, h.store.get(b.ID).Status)

	_, err = h.orch.StartService(ctx, b.ID, "T1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, h.store.get(b.ID).Status)

	_, err = h.orch.CompleteBooking(ctx, b.ID, "T1", models.ProviderTypePlace)
	assert.True(t, IsValidation(err))

	done, err := h.orch.CompleteBooking(ctx, b.ID, "T1", models.ProviderTypeTherapist)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, done.Status)
	require.NotNil(t, h.store.get(b.ID).CompletedAt)
	assert.Equal(t, models.AvailabilityAvailable, h.store.availability("T1"))

	assert.Equal(t, []models.NotificationEvent{
		models.EventBookingCreated,
		models.EventBookingConfirmed,
		models.EventProviderOnTheWay,
		models.EventServiceStarted,
		models.EventBookingCompleted,
	}, h.notifier.sent())
}

func TestSetOnTheWay_RequiresConfirmation(t *testing.T) {
	h := newHarness(t, "T1")
	b := h.create(t, "T1")

	_, err := h.orch.SetOnTheWay(context.Background(), b.ID, "T1")
	assert.True(t, IsStale(err))
	assert.True(t, h.orch.Deadlines().Armed(b.ID))
}

func TestCancelBooking(t *testing.T) {
	t.Run("pending booking stops its deadline", func(t *testing.T) {
		h := newHarness(t, "T1")
		b := h.create(t, "T1")

		cancelled, err := h.orch.CancelBooking(context.Background(), b.ID, "Guest checked out", models.CancelledByHotel)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
		assert.Equal(t, "Guest checked out", h.store.get(b.ID).CancelReason)
		assert.False(t, h.orch.Deadlines().Armed(b.ID))
		assert.Equal(t, models.AvailabilityAvailable, h.store.availability("T1"))
	})

	t.Run("confirmed booking releases the provider", func(t *testing.T) {
		h := newHarness(t, "T1")
		b := h.create(t, "T1")
		_, err := h.orch.ConfirmBooking(context.Background(), b.ID, "T1")
		require.NoError(t, err)
		require.Equal(t, models.AvailabilityBusy, h.store.availability("T1"))

		_, err = h.orch.CancelBooking(context.Background(), b.ID, "", models.CancelledByGuest)
		require.NoError(t, err)
		stored := h.store.get(b.ID)
		assert.Equal(t, "Cancelled by guest", stored.CancelReason)
		assert.Equal(t, models.CancelledByGuest, stored.CancelledBy)
		assert.Equal(t, models.AvailabilityAvailable, h.store.availability("T1"))
		assert.True(t, h.notifier.has(models.EventBookingCancelled))
	})

	t.Run("unknown actor", func(t *testing.T) {
		h := newHarness(t, "T1")
		b := h.create(t, "T1")
		_, err := h.orch.CancelBooking(context.Background(), b.ID, "", "system")
		assert.True(t, IsValidation(err))
	})

	t.Run("terminal booking", func(t *testing.T) {
		h := newHarness(t, "T1")
		b := h.create(t, "T1")
		_, err := h.orch.CancelBooking(context.Background(), b.ID, "", models.CancelledByAdmin)
		require.NoError(t, err)
		_, err = h.orch.CancelBooking(context.Background(), b.ID, "", models.CancelledByAdmin)
		assert.True(t, IsStale(err))
	})
}

func TestResumeDeadlines(t *testing.T) {
	h := newHarness(t, "T1", "T2")
	overdue := models.Booking{
		ID:                     "overdue",
		HotelVillaID:           "HV1",
		ProviderID:             "T1",
		ProviderType:           models.ProviderTypeTherapist,
		Status:                 models.BookingStatusPending,
		ProviderResponseStatus: models.ResponseAwaiting,
		ConfirmationDeadline:   baseTime.Add(-time.Minute),
		FallbackProviderIDs:    []string{"T1"},
		ServiceRadiusKm:        10,
		Version:                3,
	}
	waiting := overdue
	waiting.ID = "waiting"
	waiting.FallbackProviderIDs = []string{"T1"}
	waiting.ConfirmationDeadline = baseTime.Add(10 * time.Minute)
	confirmed := overdue
	confirmed.ID = "confirmed"
	confirmed.FallbackProviderIDs = []string{"T1"}
	confirmed.Status = models.BookingStatusConfirmed
	confirmed.ProviderResponseStatus = models.ResponseConfirmed
	h.store.put(overdue)
	h.store.put(waiting)
	h.store.put(confirmed)

	n, err := h.orch.ResumeDeadlines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, h.orch.Deadlines().Armed("waiting"))
	assert.False(t, h.orch.Deadlines().Armed("confirmed"))

	h.clock.Add(time.Second)
	require.Eventually(t, func() bool { return h.store.get("overdue").ProviderID == "T2" }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "T1", h.store.get("waiting").ProviderID)
}

func TestListBookings(t *testing.T) {
	h := newHarness(t, "T1", "T2")
	h.create(t, "T1")
	h.create(t, "T2")

	byVenue, err := h.orch.ListHotelVillaBookings(context.Background(), "HV1")
	require.NoError(t, err)
	assert.Len(t, byVenue, 2)

	byProvider, err := h.orch.ListProviderBookings(context.Background(), "T2")
	require.NoError(t, err)
	require.Len(t, byProvider, 1)
	assert.Equal(t, "T2", byProvider[0].ProviderID)

	_, err = h.orch.ListProviderBookings(context.Background(), "")
	assert.True(t, IsValidation(err))
}
