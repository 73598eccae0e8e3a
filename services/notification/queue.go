package notification

import (
	"context"
	"fmt"

	"livebooking/models"
	"livebooking/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueuedNotifier writes events to the task queue; the worker delivers them with retries.
type QueuedNotifier struct {
	queue  Enqueuer
	logger *zap.Logger
}

func NewQueuedNotifier(queue Enqueuer, logger *zap.Logger) *QueuedNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueuedNotifier{queue: queue, logger: logger}
}

func (n *QueuedNotifier) Notify(ctx context.Context, event models.NotificationEvent, b models.Booking) error {
	task, opts, err := tasks.NewNotificationTask(models.NotificationPayload{Event: event, Booking: b})
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	info, err := n.queue.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s notification: %w", event, err)
	}
	n.logger.Debug("Notification queued",
		zap.String("event", string(event)),
		zap.String("bookingId", b.ID),
		zap.String("taskId", info.ID))
	return nil
}

// LogNotifier only logs events. Used when no push backend is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event models.NotificationEvent, b models.Booking) error {
	for _, m := range messagesFor(event, b) {
		n.logger.Info("Notification",
			zap.String("event", string(event)),
			zap.String("bookingId", b.ID),
			zap.String("audience", string(m.Audience)),
			zap.String("title", m.Title),
			zap.String("body", m.Body))
	}
	return nil
}
