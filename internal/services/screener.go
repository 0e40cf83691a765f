package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-shortlister/internal/models"
)

// ScreeningReport holds the outcome of one batch. Results and Documents share
// indexes and follow the order in which the source listed the documents.
type ScreeningReport struct {
	RunID     string
	Results   []models.MatchResult
	Documents []models.Document
}

func (r *ScreeningReport) Shortlisted() []models.MatchResult {
	var out []models.MatchResult
	for _, res := range r.Results {
		if res.Accepted {
			out = append(out, res)
		}
	}
	return out
}

func (r *ScreeningReport) Rejected() []models.MatchResult {
	var out []models.MatchResult
	for _, res := range r.Results {
		if !res.Accepted {
			out = append(out, res)
		}
	}
	return out
}

func (r *ScreeningReport) AcceptedDocuments() []models.Document {
	var out []models.Document
	for i, res := range r.Results {
		if res.Accepted {
			out = append(out, r.Documents[i])
		}
	}
	return out
}

// StatusMessage is the one-line summary shown once a batch completes.
func (r *ScreeningReport) StatusMessage() string {
	return fmt.Sprintf("Shortlisting Complete! %d Resumes Shortlisted", len(r.Shortlisted()))
}

type BatchScreener interface {
	// Screen evaluates every document of src against criteria. Per-document
	// failures become rejected results; only listing failures and cancellation
	// abort the batch.
	Screen(ctx context.Context, src DocumentSource, criteria models.Criteria) (*ScreeningReport, error)
}

type batchScreener struct {
	evaluator   CriteriaEvaluator
	concurrency int
	logger      *zap.Logger
}

// NewBatchScreener returns a screener evaluating up to concurrency documents at
// once. A concurrency below 2 evaluates documents one after another.
func NewBatchScreener(evaluator CriteriaEvaluator, concurrency int, logger *zap.Logger) BatchScreener {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &batchScreener{
		evaluator:   evaluator,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *batchScreener) Screen(ctx context.Context, src DocumentSource, criteria models.Criteria) (*ScreeningReport, error) {
	docs, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	report := &ScreeningReport{
		RunID:     uuid.New().String(),
		Results:   make([]models.MatchResult, len(docs)),
		Documents: make([]models.Document, len(docs)),
	}
	s.logger.Info("screening started",
		zap.String("run_id", report.RunID),
		zap.Int("documents", len(docs)),
		zap.Strings("skills", criteria.Skills),
		zap.Int("experience", criteria.Experience),
		zap.String("education", criteria.Education),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Documents[i], report.Results[i] = s.screenOne(gctx, src, doc, criteria)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening cancelled: %w", err)
	}

	s.logger.Info("screening finished",
		zap.String("run_id", report.RunID),
		zap.Int("documents", len(docs)),
		zap.Int("shortlisted", len(report.Shortlisted())),
	)
	return report, nil
}

func (s *batchScreener) screenOne(ctx context.Context, src DocumentSource, doc models.Document, criteria models.Criteria) (models.Document, models.MatchResult) {
	loaded, err := src.Load(ctx, doc)
	if err != nil {
		s.logger.Warn("failed to load document", zap.String("file", doc.Filename), zap.Error(err))
		return doc, models.MatchResult{
			Path:     doc.Path,
			Filename: doc.Filename,
			Format:   doc.Format,
			Error:    (&ExtractionError{Path: doc.Path, Err: err}).Error(),
		}
	}

	result := s.evaluator.Evaluate(loaded, criteria)
	if !result.Accepted {
		// Only accepted documents are copied later; release the bytes now.
		loaded.Content = nil
	}
	return loaded, result
}

// Run screens src and, when at least one document is accepted, writes the
// shortlist back to the same store.
func Run(ctx context.Context, screener BatchScreener, writer ShortlistWriter, store DocumentStore, criteria models.Criteria) (*ScreeningReport, error) {
	report, err := screener.Screen(ctx, store, criteria)
	if err != nil {
		return nil, err
	}
	if err := writer.Write(ctx, store, report); err != nil {
		return report, fmt.Errorf("failed to write shortlist: %w", err)
	}
	return report, nil
}
