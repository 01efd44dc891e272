package main

import (
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"cms-backend/internal/shared"
	"cms-backend/pkg/container"
	"cms-backend/pkg/logger"
)

// startScheduler enqueues a publish-cycle task on a fixed cadence.
func startScheduler(c *container.Container) *asynq.Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		nil,
	)

	cadence := fmt.Sprintf("@every %s", c.Config.Worker.PublishInterval)
	_, err := scheduler.Register(
		cadence,
		asynq.NewTask(shared.TypeScheduledPublish, nil),
		asynq.Queue(shared.QueuePosts),
	)
	if err != nil {
		log.Fatalf("failed to register publish cycle: %v", err)
	}

	go func() {
		logger.Info("scheduler starting", map[string]interface{}{
			"cadence": cadence,
		})
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	return scheduler
}
