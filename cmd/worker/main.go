package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/config"
	"alfredoptarigan/resume-shortlister/internal/services"
	"alfredoptarigan/resume-shortlister/pkg/logger"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(cfg.Log.Level, cfg.Server.Env); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.For("worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := services.NewS3Client(ctx, cfg.S3)
	if err != nil {
		log.Fatal("failed to create S3 client", zap.Error(err))
	}

	conn, err := amqp.Dial(cfg.Queue.URL)
	if err != nil {
		log.Fatal("error connecting to RabbitMQ", zap.Error(err))
	}
	defer conn.Close()

	publisher, err := services.NewAMQPPublisher(conn, cfg.Queue.UpdatesExchange)
	if err != nil {
		log.Fatal("failed to set up update publisher", zap.Error(err))
	}

	evaluator := services.NewCriteriaEvaluator(
		services.NewDocumentExtractor(log),
		services.NewFieldExtractor(),
		services.NewExperienceMatcher(),
		log,
	)
	screener := services.NewBatchScreener(evaluator, cfg.Screening.Concurrency, log)
	stores := func(prefix string) services.DocumentStore {
		return services.NewObjectStore(client, cfg.S3.Bucket, prefix, cfg.Screening.ShortlistDir, cfg.Queue.RetryMaxAttempts, log)
	}
	jobs := services.NewScreeningJobService(screener, services.NewShortlistWriter(log), stores, publisher, log)

	worker := services.NewWorker(jobs, cfg.Queue.Concurrency, log)
	worker.Start(ctx)
	defer worker.Stop()

	consumer := services.NewQueueConsumer(conn, cfg.Queue.ScreeningQueue, worker, publisher, log)
	if err := consumer.Run(ctx); err != nil {
		log.Error("consumer stopped", zap.Error(err))
	}
	log.Info("shutting down worker")
}
