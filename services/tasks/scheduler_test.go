package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	enqueued []string
	err      error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	id, _ := optionValue(opts, asynq.TaskIDOpt)
	q.enqueued = append(q.enqueued, id.(string))
	return &asynq.TaskInfo{ID: id.(string), Type: task.Type()}, nil
}

type fakeRemover struct {
	deleted []string
	err     error
}

func (r *fakeRemover) DeleteTask(queue, id string) error {
	r.deleted = append(r.deleted, queue+"/"+id)
	return r.err
}

func TestQueueScheduler_ArmReplacesPreviousTask(t *testing.T) {
	q, rm := &fakeQueue{}, &fakeRemover{}
	s := NewQueueScheduler(q, rm, nil)
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 9, 25, 0, 0, time.UTC)
	second := first.Add(25 * time.Minute)

	require.NoError(t, s.Arm(ctx, "b1", first))
	require.NoError(t, s.Arm(ctx, "b1", second))

	assert.Equal(t, []string{DeadlineTaskID("b1", first), DeadlineTaskID("b1", second)}, q.enqueued)
	assert.Equal(t, []string{"default/" + DeadlineTaskID("b1", first)}, rm.deleted)
	assert.True(t, s.Armed("b1"))
}

func TestQueueScheduler_Disarm(t *testing.T) {
	q, rm := &fakeQueue{}, &fakeRemover{err: asynq.ErrTaskNotFound}
	s := NewQueueScheduler(q, rm, nil)
	ctx := context.Background()

	require.NoError(t, s.Disarm(ctx, "never-armed"))
	assert.Empty(t, rm.deleted)

	require.NoError(t, s.Arm(ctx, "b1", time.Now().Add(time.Minute)))
	require.NoError(t, s.Disarm(ctx, "b1"), "an already processed task is not an error")
	assert.False(t, s.Armed("b1"))

	rm.err = errors.New("redis down")
	require.NoError(t, s.Arm(ctx, "b2", time.Now().Add(time.Minute)))
	assert.Error(t, s.Disarm(ctx, "b2"))
}

func TestQueueScheduler_ArmFailures(t *testing.T) {
	q, rm := &fakeQueue{err: asynq.ErrTaskIDConflict}, &fakeRemover{}
	s := NewQueueScheduler(q, rm, nil)

	require.NoError(t, s.Arm(context.Background(), "b1", time.Now().Add(time.Minute)))
	assert.True(t, s.Armed("b1"))

	q.err = errors.New("redis down")
	assert.Error(t, s.Arm(context.Background(), "b2", time.Now().Add(time.Minute)))
	assert.False(t, s.Armed("b2"))
}

func TestQueueScheduler_Release(t *testing.T) {
	s := NewQueueScheduler(&fakeQueue{}, &fakeRemover{}, nil)
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 9, 25, 0, 0, time.UTC)

	require.NoError(t, s.Arm(ctx, "b1", first))
	require.NoError(t, s.Arm(ctx, "b1", first.Add(time.Minute)))

	s.Release("b1", first)
	assert.True(t, s.Armed("b1"), "a re-armed deadline survives the old task")

	s.Release("b1", first.Add(time.Minute))
	assert.False(t, s.Armed("b1"))
}
