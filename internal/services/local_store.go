package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"alfredoptarigan/resume-shortlister/internal/models"
)

type localStore struct {
	folder       string
	shortlistDir string
}

// NewLocalStore screens the regular files directly inside folder and writes the
// shortlist to folder/shortlistDir.
func NewLocalStore(folder, shortlistDir string) DocumentStore {
	return &localStore{
		folder:       folder,
		shortlistDir: shortlistDir,
	}
}

func (s *localStore) List(ctx context.Context) ([]models.Document, error) {
	entries, err := os.ReadDir(s.folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var docs []models.Document
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		docs = append(docs, models.NewDocument(filepath.Join(s.folder, entry.Name())))
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}

func (s *localStore) Load(ctx context.Context, doc models.Document) (models.Document, error) {
	return doc, ctx.Err()
}

func (s *localStore) Location() string {
	return s.shortlistPath()
}

func (s *localStore) shortlistPath() string {
	return filepath.Join(s.folder, s.shortlistDir)
}

func (s *localStore) ensureShortlistDir() error {
	if err := os.MkdirAll(s.shortlistPath(), 0755); err != nil {
		return fmt.Errorf("failed to create shortlist directory: %w", err)
	}
	return nil
}

func (s *localStore) CopyDocument(ctx context.Context, doc models.Document) error {
	if err := s.ensureShortlistDir(); err != nil {
		return err
	}
	dstPath := filepath.Join(s.shortlistPath(), doc.Filename)

	if doc.Content != nil {
		if err := os.WriteFile(dstPath, doc.Content, 0644); err != nil {
			return fmt.Errorf("failed to save file: %w", err)
		}
		return nil
	}

	src, err := os.Open(doc.Path)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	return nil
}

func (s *localStore) WriteReport(ctx context.Context, name string, data []byte) error {
	if err := s.ensureShortlistDir(); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.shortlistPath(), name), data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
