package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"livebooking/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingDeadline      = "booking:deadline"
	TypeNotificationDispatch = "notification:dispatch"
)

// DeadlineTaskID is unique per booking and deadline, so re-arming the same deadline is idempotent.
func DeadlineTaskID(bookingID string, deadline time.Time) string {
	return fmt.Sprintf("deadline:%s:%d", bookingID, deadline.UnixMilli())
}

// NewDeadlineTask fires no earlier than deadline. asynq schedules on whole seconds, so round up.
func NewDeadlineTask(bookingID string, deadline time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.DeadlinePayload{BookingID: bookingID, Deadline: deadline.UnixMilli()})
	if err != nil {
		return nil, nil, err
	}
	fireAt := deadline.Truncate(time.Second)
	if fireAt.Before(deadline) {
		fireAt = fireAt.Add(time.Second)
	}
	task := asynq.NewTask(TypeBookingDeadline, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(DeadlineTaskID(bookingID, deadline)),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

func ParseDeadlineTask(task *asynq.Task) (models.DeadlinePayload, error) {
	var p models.DeadlinePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid deadline payload: %w", err)
	}
	if p.BookingID == "" {
		return p, fmt.Errorf("invalid deadline payload: missing booking id")
	}
	return p, nil
}

// DeadlineOf returns the deadline carried by p.
func DeadlineOf(p models.DeadlinePayload) time.Time {
	return time.UnixMilli(p.Deadline)
}

func NewNotificationTask(payload models.NotificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotificationDispatch, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

func ParseNotificationTask(task *asynq.Task) (models.NotificationPayload, error) {
	var p models.NotificationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid notification payload: %w", err)
	}
	return p, nil
}
