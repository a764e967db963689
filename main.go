package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"descriptive_stats/config"
	"descriptive_stats/logger"
	"descriptive_stats/report"
)

func main() {
	// Load environment from .env files for local development.
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.Version {
		fmt.Println(versionString())
		os.Exit(0)
	}

	if err := logger.InitLogger(cfg.Environment, cfg.LogLevel()); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	code := finish(zap.L(), run(ctx, cfg), os.Stderr)
	stop()
	os.Exit(code)
}

// finish reports the outcome of run and flushes log before the process
// exits, since os.Exit skips deferred calls.
func finish(log *zap.Logger, err error, stderr io.Writer) int {
	code := 0
	if err != nil {
		log.Debug("run failed", zap.Error(err))
		fmt.Fprintln(stderr, "error:", userMessage(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

func run(ctx context.Context, cfg config.Config) error {
	switch {
	case cfg.Serve:
		kind, err := report.ParsePlotKind(cfg.Plot)
		if err != nil {
			return err
		}
		return serve(ctx, cfg.Listen, kind)

	case cfg.Worker || cfg.TestRunID != 0:
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		store := pgStore{db: db}

		if cfg.TestRunID != 0 {
			return processTestRun(ctx, store, cfg.TestRunID)
		}

		client, err := newQueueClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		runWorker(ctx, client, cfg.Queue, store)
		return nil

	default:
		return runOnce(cfg, os.Stdout)
	}
}
