package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const popTimeout = 5 * time.Second

type sidekiqJob struct {
	Class string            `json:"class"`
	Args  []json.RawMessage `json:"args"`
	Queue string            `json:"queue"`
}

func newQueueClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func queueKey(name string) string {
	return "queue:" + name
}

// popJob blocks for up to timeout waiting for a job on key. It returns a nil
// job and no error when the wait times out.
func popJob(ctx context.Context, client *redis.Client, key string, timeout time.Duration) (*sidekiqJob, string, error) {
	res, err := client.BRPop(ctx, timeout, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	if len(res) < 2 {
		return nil, "", fmt.Errorf("unexpected reply: %v", res)
	}

	payload := res[1]
	var job sidekiqJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, payload, fmt.Errorf("invalid job json: %w", err)
	}
	return &job, payload, nil
}
