package booking

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// TimerRegistry keeps one in-process timer per booking id.
type TimerRegistry struct {
	clock      clock.Clock
	onExpire   func(ctx context.Context, bookingID string) error
	logger     *zap.Logger
	runTimeout time.Duration

	mu     sync.Mutex
	seq    uint64
	timers map[string]*armedTimer
}

type armedTimer struct {
	timer    *clock.Timer
	gen      uint64
	deadline time.Time
}

// NewTimerRegistry returns a registry that calls onExpire when an armed deadline passes.
func NewTimerRegistry(clk clock.Clock, onExpire func(ctx context.Context, bookingID string) error, logger *zap.Logger) *TimerRegistry {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimerRegistry{
		clock:      clk,
		onExpire:   onExpire,
		logger:     logger,
		runTimeout: 30 * time.Second,
		timers:     make(map[string]*armedTimer),
	}
}

// Arm stops any timer already registered for bookingID before scheduling the new one.
// A deadline in the past fires on the next tick.
func (r *TimerRegistry) Arm(_ context.Context, bookingID string, deadline time.Time) error {
	delay := deadline.Sub(r.clock.Now())
	if delay < 0 {
		delay = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.timers[bookingID]; ok {
		prev.timer.Stop()
	}
	r.seq++
	gen := r.seq
	r.timers[bookingID] = &armedTimer{
		timer:    r.clock.AfterFunc(delay, func() { r.fire(bookingID, gen) }),
		gen:      gen,
		deadline: deadline,
	}
	r.logger.Debug("Deadline armed",
		zap.String("bookingId", bookingID),
		zap.Time("deadline", deadline),
		zap.Duration("in", delay))
	return nil
}

func (r *TimerRegistry) Disarm(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.timers[bookingID]; ok {
		entry.timer.Stop()
		delete(r.timers, bookingID)
		r.logger.Debug("Deadline disarmed", zap.String("bookingId", bookingID))
	}
	return nil
}

func (r *TimerRegistry) Armed(bookingID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[bookingID]
	return ok
}

// Deadline returns the armed deadline for bookingID, if any.
func (r *TimerRegistry) Deadline(bookingID string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.timers[bookingID]
	if !ok {
		return time.Time{}, false
	}
	return entry.deadline, true
}

// Len is the number of armed deadlines.
func (r *TimerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Stop cancels every armed timer.
func (r *TimerRegistry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.timers {
		entry.timer.Stop()
		delete(r.timers, id)
	}
}

func (r *TimerRegistry) fire(bookingID string, gen uint64) {
	r.mu.Lock()
	entry, ok := r.timers[bookingID]
	if !ok || entry.gen != gen {
		// Superseded or disarmed after the timer was already queued.
		r.mu.Unlock()
		return
	}
	delete(r.timers, bookingID)
	r.mu.Unlock()

	if r.onExpire == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.runTimeout)
	defer cancel()
	if err := r.onExpire(ctx, bookingID); err != nil {
		r.logger.Error("Deadline handler failed",
			zap.String("bookingId", bookingID),
			zap.Error(err))
	}
}
