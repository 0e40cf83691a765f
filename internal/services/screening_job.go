package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/models"
)

// UpdatePublisher broadcasts progress of queued screening jobs.
type UpdatePublisher interface {
	Publish(ctx context.Context, update models.ScreeningUpdate) error
}

// StoreFactory opens the document store a queued job refers to.
type StoreFactory func(prefix string) DocumentStore

type ScreeningJobService interface {
	Process(ctx context.Context, job models.ScreeningJob) error
}

type screeningJobService struct {
	screener  BatchScreener
	writer    ShortlistWriter
	stores    StoreFactory
	publisher UpdatePublisher
	logger    *zap.Logger
}

func NewScreeningJobService(
	screener BatchScreener,
	writer ShortlistWriter,
	stores StoreFactory,
	publisher UpdatePublisher,
	logger *zap.Logger,
) ScreeningJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &screeningJobService{
		screener:  screener,
		writer:    writer,
		stores:    stores,
		publisher: publisher,
		logger:    logger,
	}
}

// Process validates the job's criteria before touching any document, screens the
// prefix and publishes processing, completed or failed updates. A run cut short
// by ctx returns ctx's error without publishing a failure.
func (s *screeningJobService) Process(ctx context.Context, job models.ScreeningJob) error {
	criteria, err := ParseCriteria(job.Skills, job.Experience.String(), job.Education)
	if err != nil {
		s.publish(ctx, job.ID, models.StatusFailed, err.Error(), nil)
		return err
	}

	s.publish(ctx, job.ID, models.StatusProcessing, "screening started", nil)

	report, err := Run(ctx, s.screener, s.writer, s.stores(job.Prefix), criteria)
	if err != nil && ctx.Err() != nil {
		// Interrupted, not failed: the job goes back to the queue.
		return fmt.Errorf("screening of %s interrupted: %w", job.Prefix, ctx.Err())
	}
	if err != nil {
		s.publish(ctx, job.ID, models.StatusFailed, "screening failed", nil)
		return fmt.Errorf("failed to screen %s: %w", job.Prefix, err)
	}

	s.publish(ctx, job.ID, models.StatusCompleted, report.StatusMessage(), report.Shortlisted())
	return nil
}

func (s *screeningJobService) publish(ctx context.Context, jobID string, status models.ScreeningStatus, message string, shortlisted []models.MatchResult) {
	update := models.ScreeningUpdate{
		JobID:       jobID,
		Status:      status,
		Message:     message,
		Shortlisted: shortlisted,
		Timestamp:   time.Now(),
	}
	if err := s.publisher.Publish(ctx, update); err != nil {
		s.logger.Warn("failed to publish update",
			zap.String("job_id", jobID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}
