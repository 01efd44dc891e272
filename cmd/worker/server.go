package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"cms-backend/internal/domains/post/job"
	"cms-backend/internal/shared"
	"cms-backend/pkg/container"
	"cms-backend/pkg/logger"
)

// startWorkerServer runs the asynq consumer that processes publish
// cycles. Overlapping cycles are safe; every claim is its own
// conditional update.
func startWorkerServer(c *container.Container) *asynq.Server {
	mux := asynq.NewServeMux()
	mux.HandleFunc(shared.TypeScheduledPublish, job.NewScheduledPublishHandler(c.PostService).ProcessTask)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Concurrency: c.Config.Worker.Concurrency,
			Queues: map[string]int{
				shared.QueuePosts: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed", err)
			}),
		},
	)

	go func() {
		logger.Info("worker starting", map[string]interface{}{
			"concurrency": c.Config.Worker.Concurrency,
		})
		if err := srv.Start(mux); err != nil {
			log.Fatalf("worker failed: %v", err)
		}
	}()

	return srv
}
