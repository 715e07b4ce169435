package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrAlreadyLocked means another worker holds the task.
var ErrAlreadyLocked = fmt.Errorf("task is already being executed")

// Lock is the per-task mutual exclusion contract used by the executor.
type Lock interface {
	Acquire(ctx context.Context, taskId uuid.UUID) error
	Release(ctx context.Context, taskId uuid.UUID) error
}

// TaskLock serializes executors per task across instances. Acquire is SETNX
// with a TTL so a crashed worker cannot hold a task forever.
type TaskLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTaskLock(client *redis.Client, ttl time.Duration) *TaskLock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TaskLock{client: client, ttl: ttl}
}

func (l *TaskLock) key(taskId uuid.UUID) string {
	return "task:lock:" + taskId.String()
}

// Acquire returns ErrAlreadyLocked when the task is held elsewhere.
func (l *TaskLock) Acquire(ctx context.Context, taskId uuid.UUID) error {
	ok, err := l.client.SetNX(ctx, l.key(taskId), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire task lock: %w", err)
	}
	if !ok {
		return ErrAlreadyLocked
	}
	return nil
}

func (l *TaskLock) Release(ctx context.Context, taskId uuid.UUID) error {
	if err := l.client.Del(ctx, l.key(taskId)).Err(); err != nil {
		return fmt.Errorf("release task lock: %w", err)
	}
	return nil
}
