package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-shortlister/internal/models"
)

const (
	CSVReportName  = "shortlisted.csv"
	TextReportName = "shortlisted.txt"
)

var reportHeader = []string{"Name", "Email", "Phone", "Filename"}

// BuildCSVReport renders accepted results as CSV with a Name,Email,Phone,Filename
// header.
func BuildCSVReport(results []models.MatchResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range results {
		if err := w.Write(r.Row()); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// FormatResultLine renders one accepted result as "name | email | phone | file".
func FormatResultLine(r models.MatchResult) string {
	return strings.Join(r.Row(), " | ")
}

func BuildTextReport(results []models.MatchResult) []byte {
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(FormatResultLine(r))
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

type ShortlistWriter interface {
	// Write copies every accepted document of report into sink and writes the
	// CSV and text reports. Nothing is written when no document was accepted.
	Write(ctx context.Context, sink ShortlistSink, report *ScreeningReport) error
}

type shortlistWriter struct {
	logger *zap.Logger
}

func NewShortlistWriter(logger *zap.Logger) ShortlistWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &shortlistWriter{logger: logger}
}

func (w *shortlistWriter) Write(ctx context.Context, sink ShortlistSink, report *ScreeningReport) error {
	shortlisted := report.Shortlisted()
	if len(shortlisted) == 0 {
		return nil
	}

	for _, doc := range report.AcceptedDocuments() {
		if err := sink.CopyDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to copy %s: %w", doc.Filename, err)
		}
	}

	csvData, err := BuildCSVReport(shortlisted)
	if err != nil {
		return err
	}
	if err := sink.WriteReport(ctx, CSVReportName, csvData); err != nil {
		return err
	}
	if err := sink.WriteReport(ctx, TextReportName, BuildTextReport(shortlisted)); err != nil {
		return err
	}

	w.logger.Info("shortlist written",
		zap.String("run_id", report.RunID),
		zap.String("location", sink.Location()),
		zap.Int("shortlisted", len(shortlisted)),
	)
	return nil
}
