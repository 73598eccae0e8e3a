package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"livebooking/config"
	bookingRepo "livebooking/database/repository/booking"
	"livebooking/models"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeProvider struct {
	provider   models.Provider
	distanceKm float64
}

type fakeStore struct {
	mu        sync.Mutex
	bookings  map[string]models.Booking
	providers map[string]*fakeProvider
	venues    map[string]bool

	// ignoreExclude makes the search return already tried providers as well.
	ignoreExclude    bool
	failUpdate       error
	failAvailability error
	beforeUpdate     func(id string)
	searches         [][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings:  map[string]models.Booking{},
		providers: map[string]*fakeProvider{},
		venues:    map[string]bool{"HV1": true},
	}
}

func (s *fakeStore) addProvider(id string, distanceKm float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[id] = &fakeProvider{
		provider: models.Provider{
			ID:                      id,
			Name:                    "Provider " + id,
			ProviderType:            models.ProviderTypeTherapist,
			AvailabilityStatus:      models.AvailabilityAvailable,
			HotelVillaServiceStatus: models.HotelServiceActive,
		},
		distanceKm: distanceKm,
	}
}

func (s *fakeStore) availability(id string) models.AvailabilityStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.providers[id]; ok {
		return p.provider.AvailabilityStatus
	}
	return ""
}

func (s *fakeStore) get(id string) models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBooking(s.bookings[id])
}

func (s *fakeStore) put(b models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = cloneBooking(b)
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *fakeStore) bumpVersion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bookings[id]
	b.Version++
	s.bookings[id] = b
}

func cloneBooking(b models.Booking) models.Booking {
	b.FallbackProviderIDs = append([]string(nil), b.FallbackProviderIDs...)
	return b
}

func (s *fakeStore) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.Version = 1
	s.bookings[b.ID] = cloneBooking(*b)
	return nil
}

func (s *fakeStore) GetBookingByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

func (s *fakeStore) UpdateBooking(_ context.Context, id string, expectedVersion int64, patch models.BookingPatch) error {
	if s.beforeUpdate != nil {
		s.beforeUpdate(id)
	}
	return s.write(id, expectedVersion, func(b *models.Booking) { b.Apply(patch) })
}

func (s *fakeStore) CancelBooking(_ context.Context, id string, expectedVersion int64, reason, cancelledBy string, at time.Time) error {
	return s.write(id, expectedVersion, func(b *models.Booking) {
		b.Status = models.BookingStatusCancelled
		b.CancelReason = reason
		b.CancelledBy = cancelledBy
		b.CancelledAt = &at
	})
}

func (s *fakeStore) CompleteBooking(_ context.Context, id string, expectedVersion int64, at time.Time) error {
	return s.write(id, expectedVersion, func(b *models.Booking) {
		b.Status = models.BookingStatusCompleted
		b.CompletedAt = &at
	})
}

func (s *fakeStore) write(id string, expectedVersion int64, apply func(b *models.Booking)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return s.failUpdate
	}
	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.Version != expectedVersion {
		return bookingRepo.ErrVersionConflict
	}
	apply(&b)
	b.Version++
	s.bookings[id] = cloneBooking(b)
	return nil
}

func (s *fakeStore) FindAlternativeProviders(_ context.Context, hotelVillaID string, excludeIDs []string, providerType models.ProviderType, radiusKm float64) ([]models.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, append([]string(nil), excludeIDs...))
	if !s.venues[hotelVillaID] {
		return nil, errors.New("hotel/villa not found")
	}

	excluded := map[string]bool{}
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var matches []*fakeProvider
	for _, p := range s.providers {
		if p.provider.ProviderType != providerType ||
			p.provider.AvailabilityStatus != models.AvailabilityAvailable ||
			p.distanceKm > radiusKm {
			continue
		}
		if excluded[p.provider.ID] && !s.ignoreExclude {
			continue
		}
		matches = append(matches, p)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distanceKm != matches[j].distanceKm {
			return matches[i].distanceKm < matches[j].distanceKm
		}
		return matches[i].provider.ID < matches[j].provider.ID
	})
	out := make([]models.Provider, 0, len(matches))
	for _, p := range matches {
		out = append(out, p.provider)
	}
	return out, nil
}

func (s *fakeStore) SetProviderAvailability(_ context.Context, providerID string, status models.AvailabilityStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAvailability != nil {
		return s.failAvailability
	}
	if p, ok := s.providers[providerID]; ok {
		p.provider.AvailabilityStatus = status
	}
	return nil
}

func (s *fakeStore) setAvailability(id string, status models.AvailabilityStatus) {
	_ = s.SetProviderAvailability(context.Background(), id, status)
}

func (s *fakeStore) ListBookingsAwaitingResponse(_ context.Context) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.Status == models.BookingStatusPending && b.ProviderResponseStatus == models.ResponseAwaiting {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (s *fakeStore) ListBookingsByHotelVilla(_ context.Context, hotelVillaID string, limit int64) ([]models.Booking, error) {
	return s.list(func(b models.Booking) bool { return b.HotelVillaID == hotelVillaID }, limit), nil
}

func (s *fakeStore) ListBookingsByProvider(_ context.Context, providerID string, limit int64) ([]models.Booking, error) {
	return s.list(func(b models.Booking) bool { return b.ProviderID == providerID }, limit), nil
}

func (s *fakeStore) list(match func(models.Booking) bool, limit int64) []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Booking{}
	for _, b := range s.bookings {
		if match(b) && int64(len(out)) < limit {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

type sentEvent struct {
	event      models.NotificationEvent
	providerID string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []sentEvent
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, event models.NotificationEvent, b models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{event: event, providerID: b.ProviderID})
	return n.err
}

func (n *fakeNotifier) sent() []models.NotificationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.NotificationEvent, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.event)
	}
	return out
}

func (n *fakeNotifier) has(event models.NotificationEvent) bool {
	for _, e := range n.sent() {
		if e == event {
			return true
		}
	}
	return false
}

type harness struct {
	orch     *DefaultBookingOrchestrator
	store    *fakeStore
	notifier *fakeNotifier
	clock    *clock.Mock
}

func newHarness(t *testing.T, providers ...string) *harness {
	t.Helper()
	store := newFakeStore()
	for i, id := range providers {
		store.addProvider(id, float64(i+1))
	}
	notifier := &fakeNotifier{}
	mock := clock.NewMock()
	mock.Set(baseTime)

	orch, err := NewBookingOrchestrator(store, notifier, WithClock(mock))
	require.NoError(t, err)
	t.Cleanup(func() {
		if reg, ok := orch.Deadlines().(*TimerRegistry); ok {
			reg.Stop()
		}
	})
	return &harness{orch: orch, store: store, notifier: notifier, clock: mock}
}

func (h *harness) request(providerID string) models.BookingRequest {
	return models.BookingRequest{
		HotelVillaID:       "HV1",
		HotelVillaName:     "Villa Kamboja",
		GuestName:          "Ana Lima",
		RoomNumber:         "12B",
		GuestLanguage:      "pt",
		ServiceDurationMin: 90,
		StartTime:          h.clock.Now().Add(2 * time.Hour),
		ProviderID:         providerID,
		ProviderName:       "Provider " + providerID,
		ProviderType:       models.ProviderTypeTherapist,
	}
}

func (h *harness) create(t *testing.T, providerID string) *models.Booking {
	t.Helper()
	b, err := h.orch.CreateBooking(context.Background(), h.request(providerID))
	require.NoError(t, err)
	return b
}

// expire advances past the current confirmation window and waits for the timer callback to land.
func (h *harness) expire(t *testing.T, id string, done func(b models.Booking) bool) {
	t.Helper()
	h.clock.Add(25*time.Minute + time.Second)
	require.Eventually(t, func() bool { return done(h.store.get(id)) }, 2*time.Second, 5*time.Millisecond)
}

const (
	defaultWait = 2 * time.Second
	tick        = 5 * time.Millisecond
)

func configWith(windowMin, noticeMin int, radiusKm float64) config.Config {
	return config.Config{
		ConfirmationWindowMinutes: windowMin,
		MinAdvanceNoticeMinutes:   noticeMin,
		DefaultServiceRadiusKm:    radiusKm,
	}
}
