package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"descriptive_stats/input"
	"descriptive_stats/report"
)

const reconnectDelay = 2 * time.Second

func processTestRun(ctx context.Context, store runStore, testRunID int64) error {
	exists, err := store.TestRunExists(ctx, testRunID)
	if err != nil {
		return fmt.Errorf("look up test_run %d: %w", testRunID, err)
	}
	if !exists {
		return fmt.Errorf("test_runs id %d not found", testRunID)
	}
	values, err := store.RunSamples(ctx, testRunID)
	if err != nil {
		return fmt.Errorf("fetch samples failed: %w", err)
	}

	doc, metrics, err := measureRun(func() (report.Document, error) {
		return analyze(input.Input{Source: input.SourceDatabase, Sample: values})
	})
	if err != nil {
		return fmt.Errorf("test_run %d: %w", testRunID, err)
	}
	if err := store.SaveResult(ctx, testRunID, doc, metrics); err != nil {
		return fmt.Errorf("insert test_result failed: %w", err)
	}

	zap.L().Info("processed test run",
		zap.Int64("test_run", testRunID),
		zap.Int("samples", doc.Count),
		zap.Duration("duration", metrics.Duration),
		zap.String("memory", humanize.Bytes(uint64(metrics.PeakRSS))),
	)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// runWorker pops jobs from the queue until ctx is cancelled. A job that
// fails is logged and skipped.
func runWorker(ctx context.Context, client *redis.Client, queue string, store runStore) {
	key := queueKey(queue)
	logger := zap.L().With(zap.String("queue", key))
	logger.Info("worker listening")

	for ctx.Err() == nil {
		job, payload, err := popJob(ctx, client, key, popTimeout)
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			if payload != "" {
				logger.Warn("skipping job", zap.Error(err), zap.String("payload", payload))
				continue
			}
			logger.Warn("redis read failed; retrying", zap.Error(err), zap.Duration("delay", reconnectDelay))
			sleepCtx(ctx, reconnectDelay)
			continue
		}
		if job == nil {
			continue // timeout
		}

		id, err := jobTestRunID(job)
		if err != nil {
			logger.Warn("skipping job", zap.Error(err), zap.String("class", job.Class))
			continue
		}
		if err := processTestRun(ctx, store, id); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("process error", zap.Int64("test_run", id), zap.Error(err))
		}
	}
	logger.Info("worker stopped")
}
