package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const TranslationWarmupQueue = "translation_warmup_queue"

// WarmupJob asks the worker to pre-translate one item into one language.
type WarmupJob struct {
	ContentID  string    `json:"content_id"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
	RetryCount int       `json:"retry_count"`
}

// WarmupQueue is a FIFO of warm-up jobs. Dequeue waits up to wait and
// reports false when nothing arrived.
type WarmupQueue interface {
	Enqueue(ctx context.Context, job WarmupJob) error
	Dequeue(ctx context.Context, wait time.Duration) (WarmupJob, bool, error)
	Len(ctx context.Context) (int64, error)
}

type RedisWarmupQueue struct {
	client *redis.Client
}

func NewRedisWarmupQueue(client *redis.Client) *RedisWarmupQueue {
	return &RedisWarmupQueue{client: client}
}

func (q *RedisWarmupQueue) Enqueue(ctx context.Context, job WarmupJob) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, TranslationWarmupQueue, jobJSON).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

func (q *RedisWarmupQueue) Dequeue(ctx context.Context, wait time.Duration) (WarmupJob, bool, error) {
	res, err := q.client.BRPop(ctx, wait, TranslationWarmupQueue).Result()
	if errors.Is(err, redis.Nil) {
		return WarmupJob{}, false, nil
	}
	if err != nil {
		return WarmupJob{}, false, fmt.Errorf("failed to dequeue job: %w", err)
	}
	// res is [key, value]
	var job WarmupJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return WarmupJob{}, false, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return job, true, nil
}

func (q *RedisWarmupQueue) Len(ctx context.Context) (int64, error) {
	length, err := q.client.LLen(ctx, TranslationWarmupQueue).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// MemoryWarmupQueue is a bounded in-process queue. Enqueue fails when full.
type MemoryWarmupQueue struct {
	jobs chan WarmupJob
}

var ErrQueueFull = errors.New("queue: warm-up queue is full")

func NewMemoryWarmupQueue(capacity int) *MemoryWarmupQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryWarmupQueue{jobs: make(chan WarmupJob, capacity)}
}

func (q *MemoryWarmupQueue) Enqueue(_ context.Context, job WarmupJob) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryWarmupQueue) Dequeue(ctx context.Context, wait time.Duration) (WarmupJob, bool, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case job := <-q.jobs:
		return job, true, nil
	case <-timer.C:
		return WarmupJob{}, false, nil
	case <-ctx.Done():
		return WarmupJob{}, false, ctx.Err()
	}
}

func (q *MemoryWarmupQueue) Len(context.Context) (int64, error) {
	return int64(len(q.jobs)), nil
}
