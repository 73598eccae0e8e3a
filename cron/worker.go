package cron

import (
	"context"
	"fmt"
	"time"

	"livebooking/models"
	"livebooking/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TimeoutHandler is the orchestrator entry point deadline tasks are routed to.
type TimeoutHandler interface {
	HandleTimeout(ctx context.Context, bookingID string) error
}

// Deliverer sends a queued notification for real.
type Deliverer interface {
	Notify(ctx context.Context, event models.NotificationEvent, booking models.Booking) error
}

// DeadlineReleaser lets the scheduler forget a deadline task that is being processed.
type DeadlineReleaser interface {
	Release(bookingID string, deadline time.Time)
}

type WorkerDeps struct {
	RedisOpt  asynq.RedisClientOpt
	Timeouts  TimeoutHandler
	Releaser  DeadlineReleaser
	Deliverer Deliverer
	Logger    *zap.Logger
}

// NewServeMux routes deadline and notification tasks. Either route is skipped if its dependency is nil.
func NewServeMux(deps WorkerDeps) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	if deps.Timeouts != nil {
		mux.HandleFunc(tasks.TypeBookingDeadline, handleDeadlineTask(deps.Timeouts, deps.Releaser, deps.Logger))
	}
	if deps.Deliverer != nil {
		mux.HandleFunc(tasks.TypeNotificationDispatch, handleNotificationTask(deps.Deliverer, deps.Logger))
	}
	return mux
}

// InitWorker runs the async worker in background and returns the server so it can be shut down.
func InitWorker(ctx context.Context, deps WorkerDeps) *asynq.Server {
	logger := deps.Logger
	srv := asynq.NewServer(
		deps.RedisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)
	mux := NewServeMux(deps)

	// Start Redis health monitor
	go monitorRedisConnection(ctx, deps.RedisOpt, logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("Starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Failed to start worker",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Max worker start attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
		}
	}()
	return srv
}

func handleDeadlineTask(timeouts TimeoutHandler, releaser DeadlineReleaser, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseDeadlineTask(task)
		if err != nil {
			logger.Error("Dropping deadline task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		deadline := tasks.DeadlineOf(p)
		if releaser != nil {
			releaser.Release(p.BookingID, deadline)
		}

		// The task is scheduled on whole seconds; wait out any remainder.
		if wait := time.Until(deadline); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		logger.Info("Confirmation deadline reached",
			zap.String("bookingId", p.BookingID),
			zap.Time("deadline", deadline))
		return timeouts.HandleTimeout(ctx, p.BookingID)
	}
}

func handleNotificationTask(deliverer Deliverer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseNotificationTask(task)
		if err != nil {
			logger.Error("Dropping notification task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := deliverer.Notify(ctx, p.Event, p.Booking); err != nil {
			logger.Warn("Failed to deliver notification",
				zap.String("event", string(p.Event)),
				zap.String("bookingId", p.Booking.ID),
				zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, opt asynq.RedisClientOpt, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Worker Redis connection lost", zap.Error(err))
			}
		}
	}
}
