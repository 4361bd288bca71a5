package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voltmart/voltmart/app/jobs"
	"github.com/voltmart/voltmart/app/listeners"
	"github.com/voltmart/voltmart/config"
	"github.com/voltmart/voltmart/pkg/cache"
	"github.com/voltmart/voltmart/pkg/database"
	"github.com/voltmart/voltmart/pkg/logger"
	"github.com/voltmart/voltmart/pkg/queue"
	"github.com/voltmart/voltmart/pkg/schedule"
)

var queueWorkersFlag int

// voltmart queue:work — standalone worker process. Useful with the Redis
// driver when email volume outgrows the in-process workers.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootDB(); err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			logger.Warn("redis unavailable", "error", err)
		}

		jobs.Register()
		listeners.Register(database.DB, nil)
		queue.UseDB(database.DB)
		if config.QueueDriver() == "redis" && cache.RDB != nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// voltmart schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tasks := schedule.List()
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks registered.")
		} else {
			fmt.Println("Registered scheduled tasks:")
			for _, t := range tasks {
				fmt.Println("  •", t)
			}
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "Number of concurrent workers (default from QUEUE_WORKERS)")
}
