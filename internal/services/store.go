package services

import (
	"context"

	"alfredoptarigan/resume-shortlister/internal/models"
)

// DocumentSource enumerates the resumes of one batch and loads their bytes.
type DocumentSource interface {
	List(ctx context.Context) ([]models.Document, error)
	// Load returns doc ready for extraction: either Content is set or Path is a
	// readable local file.
	Load(ctx context.Context, doc models.Document) (models.Document, error)
}

// ShortlistSink receives the output of a batch: copies of accepted documents and
// the report files.
type ShortlistSink interface {
	CopyDocument(ctx context.Context, doc models.Document) error
	WriteReport(ctx context.Context, name string, data []byte) error
	// Location describes where the shortlist ends up, for status messages.
	Location() string
}

type DocumentStore interface {
	DocumentSource
	ShortlistSink
}

type memorySource struct {
	docs []models.Document
}

// NewMemorySource serves documents that are already held in memory, such as
// files received in an upload.
func NewMemorySource(docs []models.Document) DocumentSource {
	return &memorySource{docs: docs}
}

func (m *memorySource) List(ctx context.Context) ([]models.Document, error) {
	return m.docs, nil
}

func (m *memorySource) Load(ctx context.Context, doc models.Document) (models.Document, error) {
	return doc, nil
}
