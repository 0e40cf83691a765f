package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/models"
)

// QueuedJob is a screening job plus the callbacks that settle the message it
// arrived in. Ack is called once Process returns; Requeue when the job was not
// finished because the worker is shutting down.
type QueuedJob struct {
	Job     models.ScreeningJob
	Ack     func() error
	Requeue func() error
}

type Worker interface {
	Start(ctx context.Context)
	// Stop waits for running jobs and requeues the ones still buffered.
	Stop()
	// EnqueueJob blocks until the job is queued and reports false when the
	// worker has been stopped.
	EnqueueJob(job QueuedJob) bool
}

type worker struct {
	jobs        ScreeningJobService
	jobQueue    chan QueuedJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	logger      *zap.Logger
}

func NewWorker(jobs ScreeningJobService, concurrency int, logger *zap.Logger) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &worker{
		jobs:        jobs,
		jobQueue:    make(chan QueuedJob, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping worker")
		close(w.stopChan)
		w.wg.Wait()
		w.drain()
		w.logger.Info("worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(job QueuedJob) bool {
	select {
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue job", zap.String("job_id", job.Job.ID))
		return false
	default:
	}

	select {
	case w.jobQueue <- job:
		w.logger.Debug("job enqueued", zap.String("job_id", job.Job.ID))
		return true
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue job", zap.String("job_id", job.Job.ID))
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("worker goroutine stopped", zap.Int("worker_id", workerID))
			return
		case <-ctx.Done():
			return
		case job := <-w.jobQueue:
			w.handle(ctx, workerID, job)
		}
	}
}

func (w *worker) handle(ctx context.Context, workerID int, queued QueuedJob) {
	job := queued.Job

	// select picks at random between ready cases, so a job can be received
	// after cancellation.
	if ctx.Err() != nil {
		w.settle(job.ID, "requeue", queued.Requeue)
		return
	}

	w.logger.Info("processing screening job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID),
		zap.String("prefix", job.Prefix),
	)

	err := w.jobs.Process(ctx, job)
	switch {
	case err != nil && (ctx.Err() != nil || errors.Is(err, context.Canceled)):
		w.logger.Warn("screening job interrupted, requeueing",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID),
		)
		w.settle(job.ID, "requeue", queued.Requeue)
	case err != nil:
		w.logger.Error("screening job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
		// The failure has been published; redelivering would fail the same way.
		w.settle(job.ID, "ack", queued.Ack)
	default:
		w.logger.Info("screening job completed", zap.Int("worker_id", workerID), zap.String("job_id", job.ID))
		w.settle(job.ID, "ack", queued.Ack)
	}
}

// drain requeues jobs that were buffered but never started.
func (w *worker) drain() {
	for {
		select {
		case job := <-w.jobQueue:
			w.settle(job.Job.ID, "requeue", job.Requeue)
		default:
			return
		}
	}
}

func (w *worker) settle(jobID, action string, fn func() error) {
	if fn == nil {
		return
	}
	if err := fn(); err != nil {
		w.logger.Warn("failed to settle message",
			zap.String("job_id", jobID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
