package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"alfredoptarigan/resume-shortlister/internal/models"
)

func acceptedResult(name, email, phone, file string) models.MatchResult {
	return models.MatchResult{
		Path:     file,
		Filename: file,
		Accepted: true,
		Fields:   models.ExtractedFields{Name: name, Email: email, Phone: phone},
	}
}

func TestBuildCSVReport(t *testing.T) {
	data, err := BuildCSVReport([]models.MatchResult{
		acceptedResult("jane doe", "jane@example.com", "5551234567", "jane.pdf"),
		acceptedResult("doe, john", models.NotFound, models.NotFound, "john.docx"),
	})
	require.NoError(t, err)

	assert.Equal(t,
		"Name,Email,Phone,Filename\n"+
			"jane doe,jane@example.com,5551234567,jane.pdf\n"+
			"\"doe, john\",Not Found,Not Found,john.docx\n",
		string(data),
	)
}

func TestBuildTextReport(t *testing.T) {
	data := BuildTextReport([]models.MatchResult{
		acceptedResult("jane doe", "jane@example.com", "5551234567", "jane.pdf"),
		acceptedResult("john", models.NotFound, models.NotFound, "john.docx"),
	})

	assert.Equal(t,
		"jane doe | jane@example.com | 5551234567 | jane.pdf\n"+
			"john | Not Found | Not Found | john.docx\n",
		string(data),
	)
}

// recordingSink keeps everything written to it in memory.
type recordingSink struct {
	copied  []string
	reports map[string]string
	failOn  string
}

func (r *recordingSink) CopyDocument(ctx context.Context, doc models.Document) error {
	if doc.Filename == r.failOn {
		return errors.New("disk full")
	}
	r.copied = append(r.copied, doc.Filename)
	return nil
}

func (r *recordingSink) WriteReport(ctx context.Context, name string, data []byte) error {
	if r.reports == nil {
		r.reports = make(map[string]string)
	}
	r.reports[name] = string(data)
	return nil
}

func (r *recordingSink) Location() string { return "memory" }

func testReport() *ScreeningReport {
	return &ScreeningReport{
		RunID: "run-1",
		Results: []models.MatchResult{
			acceptedResult("a", "a@x.io", models.NotFound, "a.pdf"),
			{Path: "b.pdf", Filename: "b.pdf"},
			acceptedResult("c", "c@x.io", models.NotFound, "c.docx"),
		},
		Documents: []models.Document{
			models.NewDocument("a.pdf"),
			models.NewDocument("b.pdf"),
			models.NewDocument("c.docx"),
		},
	}
}

func TestShortlistWriterCopiesAcceptedAndWritesReports(t *testing.T) {
	sink := &recordingSink{}

	err := NewShortlistWriter(zaptest.NewLogger(t)).Write(context.Background(), sink, testReport())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf", "c.docx"}, sink.copied)
	require.Contains(t, sink.reports, CSVReportName)
	require.Contains(t, sink.reports, TextReportName)
	assert.Equal(t, "a | a@x.io | Not Found | a.pdf\nc | c@x.io | Not Found | c.docx\n", sink.reports[TextReportName])
}

func TestShortlistWriterSkipsEmptyShortlist(t *testing.T) {
	sink := &recordingSink{}
	report := &ScreeningReport{
		Results:   []models.MatchResult{{Filename: "b.pdf"}},
		Documents: []models.Document{models.NewDocument("b.pdf")},
	}

	require.NoError(t, NewShortlistWriter(nil).Write(context.Background(), sink, report))

	assert.Empty(t, sink.copied)
	assert.Empty(t, sink.reports)
}

func TestShortlistWriterStopsOnCopyFailure(t *testing.T) {
	sink := &recordingSink{failOn: "c.docx"}

	err := NewShortlistWriter(nil).Write(context.Background(), sink, testReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "c.docx")
	assert.Empty(t, sink.reports)
}
