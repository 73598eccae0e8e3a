package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskQueue is the part of *asynq.Client the scheduler uses.
type TaskQueue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskRemover is the part of *asynq.Inspector the scheduler uses.
type TaskRemover interface {
	DeleteTask(queue, id string) error
}

// QueueScheduler arms booking deadlines as delayed asynq tasks, so they survive restarts
// and fire on whichever worker picks them up.
type QueueScheduler struct {
	queue   TaskQueue
	remover TaskRemover
	logger  *zap.Logger

	mu    sync.Mutex
	armed map[string]string // bookingId -> task id
}

func NewQueueScheduler(queue TaskQueue, remover TaskRemover, logger *zap.Logger) *QueueScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueScheduler{
		queue:   queue,
		remover: remover,
		logger:  logger,
		armed:   make(map[string]string),
	}
}

func (s *QueueScheduler) Arm(ctx context.Context, bookingID string, deadline time.Time) error {
	if err := s.Disarm(ctx, bookingID); err != nil {
		s.logger.Warn("Could not remove previous deadline task",
			zap.String("bookingId", bookingID),
			zap.Error(err))
	}

	task, opts, err := NewDeadlineTask(bookingID, deadline)
	if err != nil {
		return fmt.Errorf("failed to build deadline task: %w", err)
	}
	taskID := DeadlineTaskID(bookingID, deadline)
	if _, err := s.queue.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("failed to schedule deadline for booking %s: %w", bookingID, err)
	}

	s.mu.Lock()
	s.armed[bookingID] = taskID
	s.mu.Unlock()

	s.logger.Debug("Deadline task scheduled",
		zap.String("bookingId", bookingID),
		zap.String("taskId", taskID),
		zap.Time("deadline", deadline))
	return nil
}

func (s *QueueScheduler) Disarm(_ context.Context, bookingID string) error {
	s.mu.Lock()
	taskID, ok := s.armed[bookingID]
	delete(s.armed, bookingID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	err := s.remover.DeleteTask("default", taskID)
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		return fmt.Errorf("failed to delete deadline task %s: %w", taskID, err)
	}
	return nil
}

// Armed only knows about deadlines armed by this process.
func (s *QueueScheduler) Armed(bookingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.armed[bookingID]
	return ok
}

// Release forgets a deadline whose task is being processed, unless it has been re-armed since.
func (s *QueueScheduler) Release(bookingID string, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed[bookingID] == DeadlineTaskID(bookingID, deadline) {
		delete(s.armed, bookingID)
	}
}
