package main

import (
	"context"
	"dresssenseapi/config"
	"dresssenseapi/dbhelper"
	"dresssenseapi/repository"
	"dresssenseapi/services"
	"dresssenseapi/tasks"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func runScheduler(brokerAddress string) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: brokerAddress}, &asynq.SchedulerOpts{
		LogLevel: asynq.InfoLevel,
	})

	entries := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "*/15 * * * *",
			task: tasks.NewSweepStaleItemsTask(),
			desc: "Stale item sweep",
		},
	}

	for _, t := range entries {
		entryID, err := scheduler.Register(t.cron, t.task, asynq.Queue(tasks.CleanupQueue))
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %s", err)
	}
	logger, err := services.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %s", err)
	}
	defer logger.Sync()

	if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env, Release: "dresssenseapi@1.0.0"}); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.AsyncBrokerAddress},
		asynq.Config{Concurrency: 4, Queues: map[string]int{
			tasks.CleanupQueue: 1,
		}},
	)

	awsService, err := services.NewAWSService(context.Background(), services.S3Options{
		BucketName:      cfg.S3BucketName,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		AccessKeySecret: cfg.S3AccessKeySecret,
	})
	if err != nil {
		log.Fatalf("[Queue] Failed to initialize AWS provider: S3: %s", err)
	}
	db, err := dbhelper.SetupDB(cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("[Queue] database: %s", err)
	}
	catalog := repository.NewCatalogRepository(db)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDeleteOrphanedImage, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleDeleteOrphanedImageTask(ctx, t, awsService, logger)
	})
	mux.HandleFunc(tasks.TypeSweepStaleItems, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleSweepStaleItemsTask(ctx, t, catalog, time.Now(), logger)
	})

	go runScheduler(cfg.AsyncBrokerAddress)
	logger.Info("starting worker", zap.String("broker", cfg.AsyncBrokerAddress))
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
