package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/services"
)

// WorkerOptions configures the Redis-backed reaper worker
type WorkerOptions struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CronSpec      string
	Concurrency   int
}

func (o WorkerOptions) redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     o.RedisAddr,
		Password: o.RedisPassword,
		DB:       o.RedisDB,
	}
}

// RunReaperWorker processes reap tasks and registers a periodic reap on the
// configured cron spec. It blocks until ctx is cancelled.
func RunReaperWorker(ctx context.Context, opts WorkerOptions, store services.ShiftReaperStore, logger *zap.Logger, today func() model.Date) error {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	if err := waitForRedis(ctx, opts, logger, 5); err != nil {
		return err
	}

	srv := asynq.NewServer(opts.redisOpt(), asynq.Config{
		Concurrency: opts.Concurrency,
		Queues:      map[string]int{queueDefault: 1},
		Logger:      logger.Sugar(),
	})

	scheduler := asynq.NewScheduler(opts.redisOpt(), &asynq.SchedulerOpts{
		Logger:   logger.Sugar(),
		Location: time.Local,
	})

	task, err := NewReapTask(model.Date{})
	if err != nil {
		return fmt.Errorf("failed to build reap task: %w", err)
	}
	entryID, err := scheduler.Register(opts.CronSpec, task, asynq.Queue(queueDefault), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("failed to register reap schedule %q: %w", opts.CronSpec, err)
	}

	if err := srv.Start(NewServeMux(store, logger, today)); err != nil {
		return fmt.Errorf("failed to start reaper worker: %w", err)
	}
	defer srv.Shutdown()

	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start reap scheduler: %w", err)
	}
	defer scheduler.Shutdown()

	logger.Info("Reaper worker running",
		zap.String("redis", opts.RedisAddr),
		zap.String("cron", opts.CronSpec),
		zap.String("entry", entryID))

	<-ctx.Done()
	logger.Info("Reaper worker stopping")
	return nil
}

// ErrReapAlreadyQueued means an identical reap was queued within the last hour
var ErrReapAlreadyQueued = errors.New("a reap for this date is already queued")

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueReap queues a one-off reap for today. Duplicate requests within an
// hour collapse into one and report ErrReapAlreadyQueued.
func EnqueueReap(ctx context.Context, opts WorkerOptions, today model.Date) (string, error) {
	client := asynq.NewClient(opts.redisOpt())
	defer client.Close()

	return enqueueReap(ctx, client, today)
}

func enqueueReap(ctx context.Context, client taskEnqueuer, today model.Date) (string, error) {
	task, err := NewReapTask(today)
	if err != nil {
		return "", fmt.Errorf("failed to build reap task: %w", err)
	}

	info, err := client.EnqueueContext(ctx, task, asynq.Queue(queueDefault), asynq.Unique(time.Hour))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return "", ErrReapAlreadyQueued
	}
	if err != nil {
		return "", fmt.Errorf("failed to enqueue reap task: %w", err)
	}
	return info.ID, nil
}

// waitForRedis pings Redis with linear backoff before the worker starts
func waitForRedis(ctx context.Context, opts WorkerOptions, logger *zap.Logger, maxAttempts int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})
	defer client.Close()

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = client.Ping(ctx).Err(); err == nil {
			return nil
		}
		logger.Warn("Redis not reachable",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err))

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*2) * time.Second):
		}
	}
	return fmt.Errorf("redis at %s unreachable: %w", opts.RedisAddr, err)
}
